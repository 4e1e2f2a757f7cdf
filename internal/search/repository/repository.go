package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Filter scopes a lookup to one owner. Pattern is an escaped regular
// expression matched case-insensitively.
type Filter struct {
	OwnerID uuid.UUID
	Pattern string
	Limit   int
}

type DocumentHit struct {
	ID         uuid.UUID
	Name       string
	Summary    *string
	UploadedAt time.Time
}

type QuizHit struct {
	ID             uuid.UUID
	Title          string
	Score          *int
	TotalQuestions int
	IsCompleted    bool
	CreatedAt      time.Time
}

type FlashcardHit struct {
	DocumentID uuid.UUID
	Question   string
	Answer     string
	CreatedAt  time.Time
}

// DocumentSearcher matches documents by name or summary.
type DocumentSearcher interface {
	SearchDocuments(ctx context.Context, f Filter) ([]DocumentHit, error)
}

// QuizSearcher matches quizzes by title.
type QuizSearcher interface {
	SearchQuizzes(ctx context.Context, f Filter) ([]QuizHit, error)
}

// FlashcardSearcher matches flashcards by question or answer.
type FlashcardSearcher interface {
	SearchFlashcards(ctx context.Context, f Filter) ([]FlashcardHit, error)
}

// Repository implements all three searchers on PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Extracted text is never selected; results only need display fields.
const searchDocumentsQuery = `
	SELECT id, original_name, summary, uploaded_at
	FROM documents
	WHERE user_id = $1
	  AND (original_name ~* $2 OR COALESCE(summary, '') ~* $2)
	ORDER BY uploaded_at DESC
	LIMIT $3`

const searchQuizzesQuery = `
	SELECT id, title, score, total_questions, is_completed, created_at
	FROM quizzes
	WHERE user_id = $1
	  AND title ~* $2
	ORDER BY created_at DESC
	LIMIT $3`

const searchFlashcardsQuery = `
	SELECT document_id, question, answer, created_at
	FROM flashcards
	WHERE user_id = $1
	  AND (question ~* $2 OR answer ~* $2)
	ORDER BY created_at DESC
	LIMIT $3`

func (r *Repository) SearchDocuments(ctx context.Context, f Filter) ([]DocumentHit, error) {
	rows, err := r.pool.Query(ctx, searchDocumentsQuery, f.OwnerID, f.Pattern, f.Limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (DocumentHit, error) {
		var h DocumentHit
		err := row.Scan(&h.ID, &h.Name, &h.Summary, &h.UploadedAt)
		return h, err
	})
}

func (r *Repository) SearchQuizzes(ctx context.Context, f Filter) ([]QuizHit, error) {
	rows, err := r.pool.Query(ctx, searchQuizzesQuery, f.OwnerID, f.Pattern, f.Limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (QuizHit, error) {
		var h QuizHit
		err := row.Scan(&h.ID, &h.Title, &h.Score, &h.TotalQuestions, &h.IsCompleted, &h.CreatedAt)
		return h, err
	})
}

func (r *Repository) SearchFlashcards(ctx context.Context, f Filter) ([]FlashcardHit, error) {
	rows, err := r.pool.Query(ctx, searchFlashcardsQuery, f.OwnerID, f.Pattern, f.Limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (FlashcardHit, error) {
		var h FlashcardHit
		err := row.Scan(&h.DocumentID, &h.Question, &h.Answer, &h.CreatedAt)
		return h, err
	})
}

var (
	_ DocumentSearcher  = (*Repository)(nil)
	_ QuizSearcher      = (*Repository)(nil)
	_ FlashcardSearcher = (*Repository)(nil)
)
