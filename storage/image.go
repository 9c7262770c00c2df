package storage

import (
	"context"
	"io"
	"time"
)

// ImageStore uploads a binary image and returns a durable URL for it.
type ImageStore interface {
	Upload(ctx context.Context, name string, r io.Reader) (string, error)
}

// Every upload runs under its own deadline so a hung image host cannot
// pin a request forever.
const uploadTimeout = 30 * time.Second
