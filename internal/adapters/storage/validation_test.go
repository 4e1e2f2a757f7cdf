package storage

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateContentType(t *testing.T) {
	if err := validateContentType("application/pdf; charset=binary"); err != nil {
		t.Fatalf("expected pdf to be accepted, got %v", err)
	}
	if err := validateContentType("image/png"); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestValidateFileSize(t *testing.T) {
	const limit = 20 << 20

	if err := validateFileSize(0, limit); !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}
	if err := validateFileSize(limit, limit); err != nil {
		t.Fatalf("expected size at limit to pass, got %v", err)
	}
	if err := validateFileSize(limit+1, limit); !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("user-1", "Lecture Notes.PDF")
	if !strings.HasPrefix(key, "user-1/") || !strings.HasSuffix(key, ".pdf") {
		t.Fatalf("unexpected key %q", key)
	}
	if strings.Contains(key, "Lecture") {
		t.Fatalf("expected original name to be dropped from key, got %q", key)
	}
}
