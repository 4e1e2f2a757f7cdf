// Package storage provides S3-compatible object storage for uploaded study files.
package storage

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrUnsupportedType is returned for uploads whose MIME type is not accepted.
	ErrUnsupportedType = errors.New("unsupported content type")
	// ErrFileTooLarge is returned when an upload exceeds the configured limit.
	ErrFileTooLarge = errors.New("file too large")
	// ErrEmptyFile is returned for zero-byte uploads.
	ErrEmptyFile = errors.New("file is empty")
)

// Object is a stored file opened for reading.
type Object struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
}

// StorageService stores and retrieves user files by key.
type StorageService interface {
	// UploadFile stores reader under folder and returns the generated key.
	UploadFile(ctx context.Context, bucket, folder, fileName, contentType string, reader io.Reader, size int64) (string, error)
	// DownloadFile opens the object. The caller closes Body.
	DownloadFile(ctx context.Context, bucket, fileKey string) (*Object, error)
	DeleteObject(ctx context.Context, bucket, fileKey string) error
	EnsureBucketExists(ctx context.Context, bucket string) error
	ValidateContentType(contentType string) error
	ValidateFileSize(sizeBytes int64) error
	GetMaxFileSize() int64
}

// Config defines the configuration interface for storage.
type Config interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	IsMinIOEnabled() bool
}
