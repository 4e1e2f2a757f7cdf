// Package pdftext extracts plain text from PDF documents.
// This is part of the platform layer and contains no business logic.
package pdftext

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// ErrEmptyDocument is returned for zero-length input.
var ErrEmptyDocument = errors.New("pdf is empty")

// Content is the text layer of a PDF.
type Content struct {
	Text      string
	PageCount int
}

// Extract reads the text layer of the PDF held in data. The parser panics on
// some malformed files; those panics are returned as errors.
func Extract(data []byte) (content Content, err error) {
	if len(data) == 0 {
		return Content{}, ErrEmptyDocument
	}

	defer func() {
		if r := recover(); r != nil {
			content = Content{}
			err = fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Content{}, fmt.Errorf("open pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return Content{PageCount: reader.NumPage()}, fmt.Errorf("read pdf text: %w", err)
	}

	raw, err := io.ReadAll(plain)
	if err != nil {
		return Content{PageCount: reader.NumPage()}, fmt.Errorf("read pdf text: %w", err)
	}

	return Content{
		Text:      Normalize(string(raw)),
		PageCount: reader.NumPage(),
	}, nil
}

// Normalize collapses runs of blank lines and trailing spaces left behind by
// the text layer while keeping paragraph breaks.
func Normalize(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRightFunc(line, unicode.IsSpace)
		if strings.TrimSpace(line) == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// Truncate returns at most limit runes of text.
func Truncate(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	count := 0
	for i := range text {
		if count == limit {
			return text[:i]
		}
		count++
	}
	return text
}
