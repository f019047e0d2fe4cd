package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/vmotion/repairshop-api/utils"
)

// PhotoStorage keeps uploaded order photos
type PhotoStorage interface {
	// Save stores the file and returns its storage key
	Save(ctx context.Context, fileHeader *multipart.FileHeader, mimeType string) (string, error)

	// URL returns an address the photo can be fetched from
	URL(ctx context.Context, key string) (string, error)

	// Delete removes a stored photo; missing keys are not an error
	Delete(ctx context.Context, key string) error
}

var photoStorageInstance PhotoStorage

// GetPhotoStorage returns the configured photo storage
func GetPhotoStorage() PhotoStorage {
	return photoStorageInstance
}

// SetPhotoStorage sets the photo storage instance
func SetPhotoStorage(storage PhotoStorage) {
	photoStorageInstance = storage
}

// LocalPhotoStorage writes photos under a directory served at /uploads
type LocalPhotoStorage struct {
	dir string
	now func() time.Time
}

// NewLocalPhotoStorage creates a storage rooted at dir
func NewLocalPhotoStorage(dir string) *LocalPhotoStorage {
	return &LocalPhotoStorage{dir: dir, now: time.Now}
}

// Dir returns the directory photos are written to
func (s *LocalPhotoStorage) Dir() string {
	return s.dir
}

func (s *LocalPhotoStorage) Save(ctx context.Context, fileHeader *multipart.FileHeader, mimeType string) (string, error) {
	filename := utils.StorageFilename(fileHeader.Filename, s.now())
	if err := utils.SaveUploadedFile(fileHeader, s.dir, filename); err != nil {
		return "", err
	}
	return filename, nil
}

func (s *LocalPhotoStorage) URL(ctx context.Context, key string) (string, error) {
	return utils.PhotoURL(key), nil
}

func (s *LocalPhotoStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.Base(key)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	return nil
}
