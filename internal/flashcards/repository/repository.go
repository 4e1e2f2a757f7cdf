package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("flashcard not found")

type Flashcard struct {
	ID         uuid.UUID
	DocumentID uuid.UUID
	UserID     uuid.UUID
	Question   string
	Answer     string
	IsFavorite bool
	CreatedAt  time.Time
	// DocumentName is only filled by ListFavorites.
	DocumentName string
}

type NewFlashcard struct {
	Question string
	Answer   string
}

type FlashcardRepository interface {
	ListByDocument(ctx context.Context, documentID, userID uuid.UUID) ([]Flashcard, error)
	CreateMany(ctx context.Context, documentID, userID uuid.UUID, cards []NewFlashcard) ([]Flashcard, error)
	ToggleFavorite(ctx context.Context, id, userID uuid.UUID) (Flashcard, error)
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]Flashcard, error)
	DeleteByDocument(ctx context.Context, documentID, userID uuid.UUID) (int64, error)
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const flashcardColumns = `id, document_id, user_id, question, answer, is_favorite, created_at`

func scanFlashcard(row pgx.Row) (Flashcard, error) {
	var f Flashcard
	err := row.Scan(&f.ID, &f.DocumentID, &f.UserID, &f.Question, &f.Answer, &f.IsFavorite, &f.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Flashcard{}, ErrNotFound
	}
	return f, err
}

// ListByDocument returns cards oldest first so a generated deck keeps its order.
func (r *Repository) ListByDocument(ctx context.Context, documentID, userID uuid.UUID) ([]Flashcard, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+flashcardColumns+`
		FROM flashcards
		WHERE document_id = $1 AND user_id = $2
		ORDER BY created_at ASC, id ASC`, documentID, userID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Flashcard, error) {
		return scanFlashcard(row)
	})
}

// CreateMany inserts the deck in one transaction.
func (r *Repository) CreateMany(ctx context.Context, documentID, userID uuid.UUID, cards []NewFlashcard) ([]Flashcard, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// created_at is spaced by position so ListByDocument keeps generation order.
	base := time.Now().UTC()
	out := make([]Flashcard, 0, len(cards))
	for i, card := range cards {
		created, err := scanFlashcard(tx.QueryRow(ctx, `
			INSERT INTO flashcards (document_id, user_id, question, answer, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+flashcardColumns,
			documentID, userID, card.Question, card.Answer, base.Add(time.Duration(i)*time.Microsecond)))
		if err != nil {
			return nil, err
		}
		out = append(out, created)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) ToggleFavorite(ctx context.Context, id, userID uuid.UUID) (Flashcard, error) {
	return scanFlashcard(r.pool.QueryRow(ctx, `
		UPDATE flashcards SET is_favorite = NOT is_favorite
		WHERE id = $1 AND user_id = $2
		RETURNING `+flashcardColumns, id, userID))
}

func (r *Repository) ListFavorites(ctx context.Context, userID uuid.UUID) ([]Flashcard, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT f.id, f.document_id, f.user_id, f.question, f.answer, f.is_favorite, f.created_at, d.original_name
		FROM flashcards f
		JOIN documents d ON d.id = f.document_id
		WHERE f.user_id = $1 AND f.is_favorite
		ORDER BY f.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Flashcard, error) {
		var f Flashcard
		err := row.Scan(&f.ID, &f.DocumentID, &f.UserID, &f.Question, &f.Answer, &f.IsFavorite, &f.CreatedAt, &f.DocumentName)
		return f, err
	})
}

func (r *Repository) DeleteByDocument(ctx context.Context, documentID, userID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM flashcards WHERE document_id = $1 AND user_id = $2`, documentID, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

var _ FlashcardRepository = (*Repository)(nil)
