package storage

import (
	"context"
	"errors"
	"io"
	"net/url"
	"os"
	"path/filepath"
)

// FSStore keeps images on the local filesystem. Development stand-in for
// the Cloudinary store; the returned URLs use the file scheme.
type FSStore struct {
	base string
}

func NewFSStore(base string) (*FSStore, error) {
	if base == "" {
		base = "./data/images"
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, err
	}
	return &FSStore{base: base}, nil
}

func (s *FSStore) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	if name == "" {
		return "", errors.New("empty image name")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dst := filepath.Join(s.base, filepath.Clean(name))
	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}

	u := url.URL{Scheme: "file", Path: dst}
	return u.String(), nil
}
