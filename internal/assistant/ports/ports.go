// Package ports declares what the assistant needs from other modules.
// Implementations live in internal/adapters so the assistant never imports
// another module's repository directly.
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Flashcard is a stored study card.
type Flashcard struct {
	ID         uuid.UUID
	Question   string
	Answer     string
	IsFavorite bool
	CreatedAt  time.Time
}

// FlashcardDraft is a generated card before it is stored.
type FlashcardDraft struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

// FlashcardStore persists generated decks.
type FlashcardStore interface {
	ListByDocument(ctx context.Context, documentID, userID uuid.UUID) ([]Flashcard, error)
	CreateMany(ctx context.Context, documentID, userID uuid.UUID, drafts []FlashcardDraft) ([]Flashcard, error)
}

// QuizQuestion is a generated multiple-choice question.
type QuizQuestion struct {
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"len=4,dive,required"`
	CorrectAnswer int      `json:"correctAnswer" validate:"min=0,max=3"`
	Explanation   string   `json:"explanation"`
}

// Quiz is a stored, not yet taken quiz.
type Quiz struct {
	ID        uuid.UUID
	Title     string
	Questions []QuizQuestion
}

// QuizStore persists generated quizzes.
type QuizStore interface {
	Create(ctx context.Context, documentID, userID uuid.UUID, title string, questions []QuizQuestion) (Quiz, error)
}

// SummaryEnqueuer schedules background summarization of an uploaded document.
type SummaryEnqueuer interface {
	EnqueueSummarize(ctx context.Context, documentID, userID uuid.UUID) error
}
