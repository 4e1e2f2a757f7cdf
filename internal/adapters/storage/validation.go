package storage

import (
	"fmt"
	"strings"
)

// AllowedContentTypes lists the MIME types accepted for study documents.
var AllowedContentTypes = map[string]bool{
	"application/pdf": true,
}

// ValidateContentType checks if the content type is allowed.
func (s *MinIOService) ValidateContentType(contentType string) error {
	return validateContentType(contentType)
}

// ValidateFileSize checks if the file size is within limits.
func (s *MinIOService) ValidateFileSize(sizeBytes int64) error {
	return validateFileSize(sizeBytes, s.maxFileSize)
}

func validateContentType(contentType string) error {
	// Drop parameters like charset.
	normalized := strings.TrimSpace(strings.ToLower(strings.Split(contentType, ";")[0]))
	if !AllowedContentTypes[normalized] {
		return fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
	}
	return nil
}

func validateFileSize(sizeBytes, limit int64) error {
	if sizeBytes <= 0 {
		return ErrEmptyFile
	}
	if sizeBytes > limit {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, sizeBytes, limit)
	}
	return nil
}
