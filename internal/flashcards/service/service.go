package service

import (
	"context"
	"errors"

	"studyhub_backend/internal/flashcards/repository"
	"studyhub_backend/internal/flashcards/transport"
	"studyhub_backend/platform/apperr"

	"github.com/google/uuid"
)

const msgNotFound = "Flashcard not found"

type Service struct {
	repo repository.FlashcardRepository
}

func New(repo repository.FlashcardRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListByDocument(ctx context.Context, documentID, userID uuid.UUID) ([]transport.FlashcardResponse, error) {
	cards, err := s.repo.ListByDocument(ctx, documentID, userID)
	if err != nil {
		return nil, apperr.Internal("Failed to get flashcards").WithErr(err)
	}
	return toResponses(cards), nil
}

func (s *Service) ToggleFavorite(ctx context.Context, id, userID uuid.UUID) (transport.FavoriteToggle, error) {
	card, err := s.repo.ToggleFavorite(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return transport.FavoriteToggle{}, apperr.NotFound(msgNotFound)
	}
	if err != nil {
		return transport.FavoriteToggle{}, apperr.Internal("Failed to toggle favorite").WithErr(err)
	}
	return transport.FavoriteToggle{ID: card.ID.String(), IsFavorite: card.IsFavorite}, nil
}

func (s *Service) Favorites(ctx context.Context, userID uuid.UUID) ([]transport.FlashcardResponse, error) {
	cards, err := s.repo.ListFavorites(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("Failed to get favorites").WithErr(err)
	}
	return toResponses(cards), nil
}

func (s *Service) DeleteByDocument(ctx context.Context, documentID, userID uuid.UUID) (int64, error) {
	n, err := s.repo.DeleteByDocument(ctx, documentID, userID)
	if err != nil {
		return 0, apperr.Internal("Failed to delete flashcards").WithErr(err)
	}
	return n, nil
}

func toResponses(cards []repository.Flashcard) []transport.FlashcardResponse {
	out := make([]transport.FlashcardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, transport.FlashcardResponse{
			ID:           c.ID.String(),
			Question:     c.Question,
			Answer:       c.Answer,
			IsFavorite:   c.IsFavorite,
			DocumentName: c.DocumentName,
			CreatedAt:    c.CreatedAt,
		})
	}
	return out
}
