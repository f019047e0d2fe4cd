package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	// MaxPhotoSize is 5MB in bytes
	MaxPhotoSize = 5 * 1024 * 1024
	// MaxPhotosPerUpload caps a single upload call
	MaxPhotosPerUpload = 5

	MimeProfileStandard = "standard"
	MimeProfileExtended = "extended"
)

var (
	standardMimeTypes = []string{"image/jpeg", "image/png", "image/webp"}
	// extended adds the formats produced by phone cameras, plus the legacy
	// jpeg names some clients still declare
	extendedMimeTypes = []string{"image/heic", "image/heif", "image/avif", "image/jpg", "image/pjpeg", "image/jfif"}
)

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

var (
	ErrTooManyFiles = &FileUploadError{
		Code:    "TOO_MANY_FILES",
		Message: fmt.Sprintf("At most %d photos can be uploaded at once", MaxPhotosPerUpload),
	}
	ErrFileTooLarge = &FileUploadError{
		Code:    "FILE_TOO_LARGE",
		Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxPhotoSize/(1024*1024)),
	}
	ErrUnsupportedFileType = &FileUploadError{
		Code:    "UNSUPPORTED_FILE_TYPE",
		Message: "File type not allowed",
	}
)

// AllowedMimeTypes returns the accepted photo types for a deployment profile
func AllowedMimeTypes(profile string) []string {
	allowed := append([]string{}, standardMimeTypes...)
	if profile != MimeProfileStandard {
		allowed = append(allowed, extendedMimeTypes...)
	}
	return allowed
}

// ValidatedPhoto is an uploaded file that passed validation
type ValidatedPhoto struct {
	Header   *multipart.FileHeader
	MimeType string
}

// PhotoValidator checks uploads against the size, count and type limits
type PhotoValidator struct {
	allowed []string
}

// NewPhotoValidator creates a validator for the given mime profile
func NewPhotoValidator(profile string) *PhotoValidator {
	return &PhotoValidator{allowed: AllowedMimeTypes(profile)}
}

// ValidateBatch validates every file before any of them is stored.
// The mime type is sniffed from the content, not taken from the client.
func (v *PhotoValidator) ValidateBatch(files []*multipart.FileHeader) ([]ValidatedPhoto, error) {
	if len(files) > MaxPhotosPerUpload {
		return nil, ErrTooManyFiles
	}

	validated := make([]ValidatedPhoto, 0, len(files))
	for _, fh := range files {
		if fh.Size > MaxPhotoSize {
			return nil, ErrFileTooLarge
		}

		mimeType, err := DetectMimeType(fh)
		if err != nil {
			return nil, err
		}
		if !v.IsAllowed(mimeType) {
			return nil, ErrUnsupportedFileType
		}

		validated = append(validated, ValidatedPhoto{Header: fh, MimeType: mimeType})
	}
	return validated, nil
}

// ValidateReference checks a photo that was stored elsewhere and is only referenced
func (v *PhotoValidator) ValidateReference(mimeType string, size int64) error {
	if size > MaxPhotoSize {
		return ErrFileTooLarge
	}
	if !v.IsAllowed(mimeType) {
		return ErrUnsupportedFileType
	}
	return nil
}

// IsAllowed reports whether mimeType belongs to the configured profile
func (v *PhotoValidator) IsAllowed(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	for _, allowed := range v.allowed {
		if mimeType == allowed {
			return true
		}
	}
	return false
}

// DetectMimeType sniffs the content type of an uploaded file
func DetectMimeType(fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return "", fmt.Errorf("failed to detect file type: %w", err)
	}
	return strings.SplitN(mtype.String(), ";", 2)[0], nil
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// StorageFilename builds a collision-free file name that keeps the original
// base name readable: <unix millis>-<random>-<base><ext>
func StorageFilename(originalName string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	base := strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName))
	base = unsafeNameChars.ReplaceAllString(strings.Join(strings.Fields(base), "_"), "")
	if base == "" {
		base = "photo"
	}
	return fmt.Sprintf("%d-%s-%s%s", now.UnixMilli(), uuid.NewString()[:8], base, ext)
}

// SaveUploadedFile saves the uploaded file to the local filesystem under filename
func SaveUploadedFile(fileHeader *multipart.FileHeader, uploadDir, filename string) (err error) {
	// Create uploads directory if it doesn't exist
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(uploadDir, filename))
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer func() {
		if closeErr := dst.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close destination file: %w", closeErr)
		}
	}()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}
	return nil
}

// PhotoURL returns the URL path for a locally stored photo
func PhotoURL(filename string) string {
	if filename == "" {
		return ""
	}
	return fmt.Sprintf("/uploads/%s", filename)
}

// IsImageFilename reports whether filename carries an image extension we serve
func IsImageFilename(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".jfif", ".png", ".webp", ".heic", ".heif", ".avif":
		return true
	}
	return false
}
