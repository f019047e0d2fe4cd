package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"sync"
)

// MockPhotoStorage is an in-memory PhotoStorage for tests
type MockPhotoStorage struct {
	files map[string][]byte
	mu    sync.RWMutex
	saves int

	// FailOnSave makes the n-th Save call (1-based) fail; zero disables it
	FailOnSave int
}

// NewMockPhotoStorage creates an empty mock storage
func NewMockPhotoStorage() *MockPhotoStorage {
	return &MockPhotoStorage{files: make(map[string][]byte)}
}

// SetAsMockForTesting sets this mock as the global photo storage
func (m *MockPhotoStorage) SetAsMockForTesting() {
	SetPhotoStorage(m)
}

func (m *MockPhotoStorage) Save(ctx context.Context, fileHeader *multipart.FileHeader, mimeType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.saves++
	if m.FailOnSave > 0 && m.saves == m.FailOnSave {
		return "", fmt.Errorf("mock storage: save %d failed", m.saves)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	key := fmt.Sprintf("mock/%d_%s", m.saves, fileHeader.Filename)
	m.files[key] = content
	return key, nil
}

func (m *MockPhotoStorage) URL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	return fmt.Sprintf("https://photos.test/%s", key), nil
}

func (m *MockPhotoStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.files, key)
	m.mu.Unlock()
	return nil
}

// StoredFiles returns a copy of everything currently stored
func (m *MockPhotoStorage) StoredFiles() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make(map[string][]byte, len(m.files))
	for k, v := range m.files {
		files[k] = v
	}
	return files
}

// Exists checks if a key is stored
func (m *MockPhotoStorage) Exists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[key]
	return ok
}
