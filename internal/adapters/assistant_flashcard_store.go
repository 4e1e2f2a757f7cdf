package adapters

import (
	"context"
	"fmt"

	"studyhub_backend/internal/assistant/ports"
	flashrepo "studyhub_backend/internal/flashcards/repository"

	"github.com/google/uuid"
)

// AssistantFlashcardStore adapts the flashcards repository for the assistant,
// satisfying ports.FlashcardStore.
type AssistantFlashcardStore struct {
	repo flashrepo.FlashcardRepository
}

func NewAssistantFlashcardStore(repo flashrepo.FlashcardRepository) *AssistantFlashcardStore {
	return &AssistantFlashcardStore{repo: repo}
}

func (a *AssistantFlashcardStore) ListByDocument(ctx context.Context, documentID, userID uuid.UUID) ([]ports.Flashcard, error) {
	cards, err := a.repo.ListByDocument(ctx, documentID, userID)
	if err != nil {
		return nil, fmt.Errorf("flashcards adapter: list: %w", err)
	}
	return toPortFlashcards(cards), nil
}

func (a *AssistantFlashcardStore) CreateMany(ctx context.Context, documentID, userID uuid.UUID, drafts []ports.FlashcardDraft) ([]ports.Flashcard, error) {
	in := make([]flashrepo.NewFlashcard, 0, len(drafts))
	for _, d := range drafts {
		in = append(in, flashrepo.NewFlashcard{Question: d.Question, Answer: d.Answer})
	}
	cards, err := a.repo.CreateMany(ctx, documentID, userID, in)
	if err != nil {
		return nil, fmt.Errorf("flashcards adapter: create: %w", err)
	}
	return toPortFlashcards(cards), nil
}

func toPortFlashcards(cards []flashrepo.Flashcard) []ports.Flashcard {
	out := make([]ports.Flashcard, 0, len(cards))
	for _, c := range cards {
		out = append(out, ports.Flashcard{
			ID:         c.ID,
			Question:   c.Question,
			Answer:     c.Answer,
			IsFavorite: c.IsFavorite,
			CreatedAt:  c.CreatedAt,
		})
	}
	return out
}

var _ ports.FlashcardStore = (*AssistantFlashcardStore)(nil)
