package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound         = errors.New("quiz not found")
	ErrAlreadyCompleted = errors.New("quiz already completed")
)

// Question is one multiple-choice item as stored in the questions JSONB column.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	UserAnswer    *int     `json:"userAnswer,omitempty"`
}

type Quiz struct {
	ID             uuid.UUID
	DocumentID     uuid.UUID
	UserID         uuid.UUID
	Title          string
	Questions      []Question
	Score          *int
	TotalQuestions int
	IsCompleted    bool
	CompletedAt    *time.Time
	CreatedAt      time.Time
	// DocumentName is only filled by History.
	DocumentName string
}

type NewQuiz struct {
	DocumentID uuid.UUID
	UserID     uuid.UUID
	Title      string
	Questions  []Question
}

type QuizRepository interface {
	Create(ctx context.Context, quiz NewQuiz) (Quiz, error)
	GetByID(ctx context.Context, id, userID uuid.UUID) (Quiz, error)
	Complete(ctx context.Context, id, userID uuid.UUID, questions []Question, score int) (Quiz, error)
	History(ctx context.Context, userID uuid.UUID, limit int) ([]Quiz, error)
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const quizColumns = `id, document_id, user_id, title, questions, score, total_questions, is_completed, completed_at, created_at`

func scanQuiz(row pgx.Row) (Quiz, error) {
	var q Quiz
	err := row.Scan(&q.ID, &q.DocumentID, &q.UserID, &q.Title, &q.Questions, &q.Score,
		&q.TotalQuestions, &q.IsCompleted, &q.CompletedAt, &q.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Quiz{}, ErrNotFound
	}
	return q, err
}

func (r *Repository) Create(ctx context.Context, quiz NewQuiz) (Quiz, error) {
	return scanQuiz(r.pool.QueryRow(ctx, `
		INSERT INTO quizzes (document_id, user_id, title, questions, total_questions)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+quizColumns,
		quiz.DocumentID, quiz.UserID, quiz.Title, quiz.Questions, len(quiz.Questions)))
}

func (r *Repository) GetByID(ctx context.Context, id, userID uuid.UUID) (Quiz, error) {
	return scanQuiz(r.pool.QueryRow(ctx, `
		SELECT `+quizColumns+`
		FROM quizzes
		WHERE id = $1 AND user_id = $2`, id, userID))
}

// Complete records the graded questions once. A second submission loses the
// race on is_completed and gets ErrAlreadyCompleted.
func (r *Repository) Complete(ctx context.Context, id, userID uuid.UUID, questions []Question, score int) (Quiz, error) {
	quiz, err := scanQuiz(r.pool.QueryRow(ctx, `
		UPDATE quizzes
		SET questions = $3, score = $4, is_completed = true, completed_at = now()
		WHERE id = $1 AND user_id = $2 AND NOT is_completed
		RETURNING `+quizColumns, id, userID, questions, score))
	if errors.Is(err, ErrNotFound) {
		return Quiz{}, ErrAlreadyCompleted
	}
	return quiz, err
}

func (r *Repository) History(ctx context.Context, userID uuid.UUID, limit int) ([]Quiz, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT q.id, q.document_id, q.user_id, q.title, q.score, q.total_questions, q.completed_at, q.created_at, d.original_name
		FROM quizzes q
		JOIN documents d ON d.id = q.document_id
		WHERE q.user_id = $1 AND q.is_completed
		ORDER BY q.completed_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Quiz, error) {
		q := Quiz{IsCompleted: true}
		err := row.Scan(&q.ID, &q.DocumentID, &q.UserID, &q.Title, &q.Score, &q.TotalQuestions,
			&q.CompletedAt, &q.CreatedAt, &q.DocumentName)
		return q, err
	})
}

var _ QuizRepository = (*Repository)(nil)
