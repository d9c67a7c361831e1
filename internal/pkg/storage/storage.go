package storage

import (
	"context"
	"io"
	"time"

	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/apperror"
)

type FileStorage interface {
	// Upload uploads a file and returns the file path/key
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Download retrieves a file
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a file
	Delete(ctx context.Context, path string) error

	// GetURL generates a presigned/public URL
	GetURL(ctx context.Context, path string, expiry time.Duration) (string, error)

	// Exists checks if file exists
	Exists(ctx context.Context, path string) (bool, error)
}

var ErrStorageNotConfigured = apperror.New(apperror.KindStorageUnavailable,
	"file storage is not configured; set STORAGE_BASE_PATH to enable uploads")

// Unconfigured is the FileStorage used when no blob store is set up.
// Every operation fails with ErrStorageNotConfigured.
type Unconfigured struct{}

func (Unconfigured) Upload(context.Context, io.Reader, string, string) (string, error) {
	return "", ErrStorageNotConfigured
}

func (Unconfigured) Download(context.Context, string) (io.ReadCloser, error) {
	return nil, ErrStorageNotConfigured
}

func (Unconfigured) Delete(context.Context, string) error {
	return ErrStorageNotConfigured
}

func (Unconfigured) GetURL(context.Context, string, time.Duration) (string, error) {
	return "", ErrStorageNotConfigured
}

func (Unconfigured) Exists(context.Context, string) (bool, error) {
	return false, ErrStorageNotConfigured
}
