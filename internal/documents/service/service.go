package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"studyhub_backend/internal/adapters/storage"
	"studyhub_backend/internal/documents/repository"
	"studyhub_backend/internal/documents/transport"
	"studyhub_backend/internal/events"
	"studyhub_backend/platform/apperr"
	"studyhub_backend/platform/logger"
	"studyhub_backend/platform/pdftext"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	recentLimit = 5
	pdfMimeType = "application/pdf"

	msgNotFound        = "Document not found"
	msgOnlyPDF         = "Only PDF files are allowed"
	msgNoFile          = "No file uploaded"
	msgFileTooLargeFmt = "File too large. Maximum size is %d MB"
)

// BlobStore is the subset of storage.StorageService used for documents.
type BlobStore interface {
	UploadFile(ctx context.Context, bucket, folder, fileName, contentType string, reader io.Reader, size int64) (string, error)
	DownloadFile(ctx context.Context, bucket, fileKey string) (*storage.Object, error)
	DeleteObject(ctx context.Context, bucket, fileKey string) error
	ValidateContentType(contentType string) error
	ValidateFileSize(sizeBytes int64) error
	GetMaxFileSize() int64
}

// Upload is an incoming file.
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type Service struct {
	repo     repository.DocumentRepository
	blobs    BlobStore
	bucket   string
	eventBus events.Bus
	log      *logger.Logger
}

func New(repo repository.DocumentRepository, blobs BlobStore, bucket string, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, blobs: blobs, bucket: bucket, eventBus: eventBus, log: log}
}

// Upload stores the PDF, extracts its text and records it. Extraction
// failures are logged and leave the text empty for lazy extraction later.
func (s *Service) Upload(ctx context.Context, userID uuid.UUID, up Upload) (transport.DocumentResponse, error) {
	if up.Reader == nil {
		return transport.DocumentResponse{}, apperr.BadRequest(msgNoFile)
	}
	if err := s.validate(up); err != nil {
		return transport.DocumentResponse{}, err
	}

	// The size is already bounded, so buffering is safe and lets the
	// extractor seek.
	data, err := io.ReadAll(io.LimitReader(up.Reader, s.blobs.GetMaxFileSize()+1))
	if err != nil {
		return transport.DocumentResponse{}, apperr.Internal("Failed to read upload").WithErr(err)
	}
	if int64(len(data)) > s.blobs.GetMaxFileSize() {
		return transport.DocumentResponse{}, s.tooLarge()
	}

	var text *string
	pageCount := 0
	content, extractErr := pdftext.Extract(data)
	if extractErr != nil {
		s.log.WithContext(ctx).Warn("pdf text extraction failed", "error", extractErr, "fileName", up.FileName)
	} else {
		pageCount = content.PageCount
		if content.Text != "" {
			text = &content.Text
		}
	}

	name := cleanFileName(up.FileName)
	fileKey, err := s.blobs.UploadFile(ctx, s.bucket, userID.String(), name, pdfMimeType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return transport.DocumentResponse{}, apperr.Internal("Failed to store file").WithErr(err)
	}

	doc, err := s.repo.Create(ctx, repository.NewDocument{
		UserID:        userID,
		FileKey:       fileKey,
		OriginalName:  name,
		FileSize:      int64(len(data)),
		MimeType:      pdfMimeType,
		PageCount:     pageCount,
		ExtractedText: text,
	})
	if err != nil {
		if delErr := s.blobs.DeleteObject(ctx, s.bucket, fileKey); delErr != nil {
			s.log.WithContext(ctx).Error("failed to remove orphaned upload", "error", delErr, "fileKey", fileKey)
		}
		return transport.DocumentResponse{}, apperr.Internal("Failed to save document").WithErr(err)
	}

	s.eventBus.Publish(ctx, events.DocumentUploaded{
		BaseEvent:  events.NewBaseEvent(),
		DocumentID: doc.ID,
		UserID:     userID,
		FileName:   doc.OriginalName,
		PageCount:  doc.PageCount,
		HasText:    text != nil,
	})

	return toResponse(doc), nil
}

func (s *Service) validate(up Upload) error {
	if err := s.blobs.ValidateContentType(up.ContentType); err != nil {
		if !strings.EqualFold(filepath.Ext(up.FileName), ".pdf") || up.ContentType != "application/octet-stream" {
			return apperr.BadRequest(msgOnlyPDF)
		}
	}
	if err := s.blobs.ValidateFileSize(up.Size); err != nil {
		if errors.Is(err, storage.ErrEmptyFile) {
			return apperr.BadRequest(msgNoFile)
		}
		return s.tooLarge()
	}
	return nil
}

func (s *Service) tooLarge() error {
	return apperr.TooLarge(fmt.Sprintf(msgFileTooLargeFmt, s.blobs.GetMaxFileSize()/(1<<20)))
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]transport.DocumentResponse, error) {
	docs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("Failed to load documents").WithErr(err)
	}
	out := make([]transport.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toResponse(d))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id, userID uuid.UUID) (transport.DocumentResponse, error) {
	doc, err := s.get(ctx, id, userID)
	if err != nil {
		return transport.DocumentResponse{}, err
	}
	return toResponse(doc), nil
}

func (s *Service) get(ctx context.Context, id, userID uuid.UUID) (repository.Document, error) {
	doc, err := s.repo.GetByID(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Document{}, apperr.NotFound(msgNotFound)
	}
	if err != nil {
		return repository.Document{}, apperr.Internal("Failed to load document").WithErr(err)
	}
	return doc, nil
}

// File is an opened document blob.
type File struct {
	Name   string
	Object *storage.Object
}

// OpenFile returns the stored PDF. The caller closes Object.Body.
func (s *Service) OpenFile(ctx context.Context, id, userID uuid.UUID) (File, error) {
	doc, err := s.get(ctx, id, userID)
	if err != nil {
		return File{}, err
	}
	obj, err := s.blobs.DownloadFile(ctx, s.bucket, doc.FileKey)
	if err != nil {
		return File{}, apperr.NotFound("File not found").WithErr(err)
	}
	return File{Name: doc.OriginalName, Object: obj}, nil
}

// Delete removes the record and its study material; the blob is removed by
// the DocumentDeleted subscriber.
func (s *Service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	doc, err := s.repo.Delete(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(msgNotFound)
	}
	if err != nil {
		return apperr.Internal("Failed to delete document").WithErr(err)
	}

	s.eventBus.Publish(ctx, events.DocumentDeleted{
		BaseEvent:  events.NewBaseEvent(),
		DocumentID: doc.ID,
		UserID:     userID,
		FileKey:    doc.FileKey,
	})
	return nil
}

// RemoveBlob handles DocumentDeleted.
func (s *Service) RemoveBlob(ctx context.Context, event events.Event) error {
	e, ok := event.(events.DocumentDeleted)
	if !ok || e.FileKey == "" {
		return nil
	}
	return s.blobs.DeleteObject(ctx, s.bucket, e.FileKey)
}

// Stats gathers dashboard counters and recent activity concurrently.
func (s *Service) Stats(ctx context.Context, userID uuid.UUID) (transport.StatsResponse, error) {
	var (
		counts  repository.Counts
		docs    []repository.Document
		quizzes []repository.QuizActivity
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		counts.Documents, err = s.repo.CountDocuments(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		counts.Flashcards, err = s.repo.CountFlashcards(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		counts.CompletedQuizzes, err = s.repo.CountCompletedQuizzes(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		docs, err = s.repo.RecentDocuments(gctx, userID, recentLimit)
		return err
	})
	g.Go(func() (err error) {
		quizzes, err = s.repo.RecentQuizzes(gctx, userID, recentLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return transport.StatsResponse{}, apperr.Internal("Failed to load dashboard").WithErr(err)
	}

	resp := transport.StatsResponse{
		Stats: transport.Stats{
			TotalDocuments:   counts.Documents,
			TotalFlashcards:  counts.Flashcards,
			CompletedQuizzes: counts.CompletedQuizzes,
		},
		RecentActivity: transport.RecentActivity{
			Documents: make([]transport.DocumentResponse, 0, len(docs)),
			Quizzes:   make([]transport.QuizActivity, 0, len(quizzes)),
		},
	}
	for _, d := range docs {
		resp.RecentActivity.Documents = append(resp.RecentActivity.Documents, toResponse(d))
	}
	for _, q := range quizzes {
		resp.RecentActivity.Quizzes = append(resp.RecentActivity.Quizzes, transport.QuizActivity{
			ID:          q.ID.String(),
			Title:       q.Title,
			Score:       q.Score,
			Total:       q.Total,
			IsCompleted: q.CompletedAt != nil,
			CompletedAt: q.CompletedAt,
			CreatedAt:   q.CreatedAt,
		})
	}
	return resp, nil
}

func toResponse(d repository.Document) transport.DocumentResponse {
	return transport.DocumentResponse{
		ID:         d.ID.String(),
		FileName:   d.OriginalName,
		FileSize:   d.FileSize,
		MimeType:   d.MimeType,
		PageCount:  d.PageCount,
		Summary:    d.Summary,
		UploadedAt: d.UploadedAt,
	}
}

// cleanFileName keeps the base name and guarantees a .pdf extension.
func cleanFileName(name string) string {
	name = strings.TrimSpace(filepath.Base(strings.ReplaceAll(name, "\\", "/")))
	if name == "" || name == "." || name == "/" {
		name = "document.pdf"
	}
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		name += ".pdf"
	}
	return name
}
