package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("document not found")

// Document is a stored upload. ExtractedText is never loaded by this
// repository; the assistant reads it separately.
type Document struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	FileKey      string
	OriginalName string
	FileSize     int64
	MimeType     string
	PageCount    int
	Summary      *string
	UploadedAt   time.Time
}

// NewDocument is the insert payload.
type NewDocument struct {
	UserID        uuid.UUID
	FileKey       string
	OriginalName  string
	FileSize      int64
	MimeType      string
	PageCount     int
	ExtractedText *string
}

type QuizActivity struct {
	ID          uuid.UUID
	Title       string
	Score       *int
	Total       int
	CompletedAt *time.Time
	CreatedAt   time.Time
}

type Counts struct {
	Documents        int
	Flashcards       int
	CompletedQuizzes int
}

// DocumentRepository is what the documents service needs from storage.
type DocumentRepository interface {
	Create(ctx context.Context, doc NewDocument) (Document, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Document, error)
	GetByID(ctx context.Context, id, userID uuid.UUID) (Document, error)
	Delete(ctx context.Context, id, userID uuid.UUID) (Document, error)

	CountDocuments(ctx context.Context, userID uuid.UUID) (int, error)
	CountFlashcards(ctx context.Context, userID uuid.UUID) (int, error)
	CountCompletedQuizzes(ctx context.Context, userID uuid.UUID) (int, error)
	RecentDocuments(ctx context.Context, userID uuid.UUID, limit int) ([]Document, error)
	RecentQuizzes(ctx context.Context, userID uuid.UUID, limit int) ([]QuizActivity, error)
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const documentColumns = `id, user_id, file_key, original_name, file_size, mime_type, page_count, summary, uploaded_at`

func scanDocument(row pgx.Row) (Document, error) {
	var d Document
	err := row.Scan(&d.ID, &d.UserID, &d.FileKey, &d.OriginalName, &d.FileSize, &d.MimeType, &d.PageCount, &d.Summary, &d.UploadedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	return d, err
}

func collectDocuments(rows pgx.Rows) ([]Document, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Document, error) {
		return scanDocument(row)
	})
}

func (r *Repository) Create(ctx context.Context, doc NewDocument) (Document, error) {
	return scanDocument(r.pool.QueryRow(ctx, `
		INSERT INTO documents (user_id, file_key, original_name, file_size, mime_type, page_count, extracted_text)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+documentColumns,
		doc.UserID, doc.FileKey, doc.OriginalName, doc.FileSize, doc.MimeType, doc.PageCount, doc.ExtractedText))
}

func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Document, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE user_id = $1
		ORDER BY uploaded_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return collectDocuments(rows)
}

func (r *Repository) GetByID(ctx context.Context, id, userID uuid.UUID) (Document, error) {
	return scanDocument(r.pool.QueryRow(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE id = $1 AND user_id = $2`, id, userID))
}

// Delete removes the document; flashcards, quizzes and chat sessions go with
// it through ON DELETE CASCADE.
func (r *Repository) Delete(ctx context.Context, id, userID uuid.UUID) (Document, error) {
	return scanDocument(r.pool.QueryRow(ctx, `
		DELETE FROM documents
		WHERE id = $1 AND user_id = $2
		RETURNING `+documentColumns, id, userID))
}

func (r *Repository) count(ctx context.Context, query string, userID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, query, userID).Scan(&n)
	return n, err
}

func (r *Repository) CountDocuments(ctx context.Context, userID uuid.UUID) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM documents WHERE user_id = $1`, userID)
}

func (r *Repository) CountFlashcards(ctx context.Context, userID uuid.UUID) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM flashcards WHERE user_id = $1`, userID)
}

func (r *Repository) CountCompletedQuizzes(ctx context.Context, userID uuid.UUID) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM quizzes WHERE user_id = $1 AND is_completed`, userID)
}

func (r *Repository) RecentDocuments(ctx context.Context, userID uuid.UUID, limit int) ([]Document, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE user_id = $1
		ORDER BY uploaded_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	return collectDocuments(rows)
}

func (r *Repository) RecentQuizzes(ctx context.Context, userID uuid.UUID, limit int) ([]QuizActivity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, score, total_questions, completed_at, created_at
		FROM quizzes
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (QuizActivity, error) {
		var q QuizActivity
		err := row.Scan(&q.ID, &q.Title, &q.Score, &q.Total, &q.CompletedAt, &q.CreatedAt)
		return q, err
	})
}

var _ DocumentRepository = (*Repository)(nil)
