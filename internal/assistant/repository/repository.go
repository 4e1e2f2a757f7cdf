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
	ErrDocumentNotFound = errors.New("document not found")
	ErrSessionNotFound  = errors.New("chat session not found")
)

// Document is the slice of a document the assistant works from.
type Document struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	FileKey       string
	OriginalName  string
	Summary       *string
	ExtractedText *string
}

type Session struct {
	ID         uuid.UUID
	DocumentID uuid.UUID
	UserID     uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Message struct {
	ID        uuid.UUID
	Role      string
	Content   string
	CreatedAt time.Time
}

type NewMessage struct {
	Role    string
	Content string
}

type AssistantRepository interface {
	GetDocument(ctx context.Context, id, userID uuid.UUID) (Document, error)
	SaveExtractedText(ctx context.Context, id uuid.UUID, text string) error
	// SaveSummary stores summary only when none exists and reports whether it did.
	SaveSummary(ctx context.Context, id uuid.UUID, summary string) (bool, error)

	GetOrCreateSession(ctx context.Context, documentID, userID uuid.UUID) (Session, error)
	FindSession(ctx context.Context, documentID, userID uuid.UUID) (Session, error)
	ListMessages(ctx context.Context, sessionID uuid.UUID) ([]Message, error)
	AppendMessages(ctx context.Context, sessionID uuid.UUID, msgs []NewMessage) ([]Message, error)
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) GetDocument(ctx context.Context, id, userID uuid.UUID) (Document, error) {
	var d Document
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, file_key, original_name, summary, extracted_text
		FROM documents
		WHERE id = $1 AND user_id = $2`, id, userID).
		Scan(&d.ID, &d.UserID, &d.FileKey, &d.OriginalName, &d.Summary, &d.ExtractedText)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, ErrDocumentNotFound
	}
	return d, err
}

func (r *Repository) SaveExtractedText(ctx context.Context, id uuid.UUID, text string) error {
	_, err := r.pool.Exec(ctx, `UPDATE documents SET extracted_text = $2 WHERE id = $1`, id, text)
	return err
}

func (r *Repository) SaveSummary(ctx context.Context, id uuid.UUID, summary string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE documents SET summary = $2 WHERE id = $1 AND summary IS NULL`, id, summary)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

const sessionColumns = `id, document_id, user_id, created_at, updated_at`

func scanSession(row pgx.Row) (Session, error) {
	var s Session
	err := row.Scan(&s.ID, &s.DocumentID, &s.UserID, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Session{}, ErrSessionNotFound
	}
	return s, err
}

// GetOrCreateSession relies on UNIQUE (user_id, document_id) so concurrent
// first messages share one session.
func (r *Repository) GetOrCreateSession(ctx context.Context, documentID, userID uuid.UUID) (Session, error) {
	return scanSession(r.pool.QueryRow(ctx, `
		INSERT INTO chat_sessions (document_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, document_id) DO UPDATE SET updated_at = now()
		RETURNING `+sessionColumns, documentID, userID))
}

func (r *Repository) FindSession(ctx context.Context, documentID, userID uuid.UUID) (Session, error) {
	return scanSession(r.pool.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM chat_sessions
		WHERE document_id = $1 AND user_id = $2`, documentID, userID))
}

func (r *Repository) ListMessages(ctx context.Context, sessionID uuid.UUID) ([]Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, role, content, created_at
		FROM chat_messages
		WHERE session_id = $1
		ORDER BY seq ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Message, error) {
		var m Message
		err := row.Scan(&m.ID, &m.Role, &m.Content, &m.CreatedAt)
		return m, err
	})
}

// AppendMessages writes msgs in order within one transaction.
func (r *Repository) AppendMessages(ctx context.Context, sessionID uuid.UUID, msgs []NewMessage) ([]Message, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	out := make([]Message, 0, len(msgs))
	for _, msg := range msgs {
		var m Message
		err := tx.QueryRow(ctx, `
			INSERT INTO chat_messages (session_id, role, content)
			VALUES ($1, $2, $3)
			RETURNING id, role, content, created_at`, sessionID, msg.Role, msg.Content).
			Scan(&m.ID, &m.Role, &m.Content, &m.CreatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}

	if _, err := tx.Exec(ctx, `UPDATE chat_sessions SET updated_at = now() WHERE id = $1`, sessionID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

var _ AssistantRepository = (*Repository)(nil)
