// Package events defines the domain events exchanged between study modules.
// Bus infrastructure lives in platform/events.
package events

import (
	"studyhub_backend/platform/events"

	"github.com/google/uuid"
)

type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

var NewBaseEvent = events.NewBaseEvent

// UserRegistered is published after a new account is created.
type UserRegistered struct {
	BaseEvent
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
}

func (e UserRegistered) EventName() string { return "auth.user.registered" }

// DocumentUploaded is published once a PDF is stored and its record exists.
type DocumentUploaded struct {
	BaseEvent
	DocumentID uuid.UUID `json:"documentId"`
	UserID     uuid.UUID `json:"userId"`
	FileName   string    `json:"fileName"`
	PageCount  int       `json:"pageCount"`
	HasText    bool      `json:"hasText"`
}

func (e DocumentUploaded) EventName() string { return "documents.document.uploaded" }

// DocumentDeleted is published after a document and its study material are removed.
type DocumentDeleted struct {
	BaseEvent
	DocumentID uuid.UUID `json:"documentId"`
	UserID     uuid.UUID `json:"userId"`
	FileKey    string    `json:"fileKey"`
}

func (e DocumentDeleted) EventName() string { return "documents.document.deleted" }

// QuizCompleted is published when a quiz submission is scored.
type QuizCompleted struct {
	BaseEvent
	QuizID     uuid.UUID `json:"quizId"`
	UserID     uuid.UUID `json:"userId"`
	DocumentID uuid.UUID `json:"documentId"`
	Score      int       `json:"score"`
	Total      int       `json:"total"`
}

func (e QuizCompleted) EventName() string { return "quizzes.quiz.completed" }
