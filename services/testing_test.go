package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"testing"

	"photoquiz/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Quiz{},
		&models.Question{},
		&models.Answer{},
		&models.QuizResult{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	user := models.User{Name: name, Email: name + "@example.com"}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

// fakeImageStore records uploads and fails for any name once FailAll is
// set or after FailAfter successful uploads.
type fakeImageStore struct {
	mu        sync.Mutex
	uploads   int
	FailAll   bool
	FailAfter int
}

func (f *fakeImageStore) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailAll || (f.FailAfter > 0 && f.uploads >= f.FailAfter) {
		return "", fmt.Errorf("upload rejected for %s", name)
	}
	f.uploads++
	return "https://images.test/" + name, nil
}

// memSessionStore is an in-process sessionStore for play-flow tests.
type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]string
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: map[string]string{}}
}

func (m *memSessionStore) save(ctx context.Context, s *PlaySession) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = string(data)
	return nil
}

func (m *memSessionStore) load(ctx context.Context, id string) (*PlaySession, error) {
	m.mu.Lock()
	data, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	var s PlaySession
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *memSessionStore) delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}
