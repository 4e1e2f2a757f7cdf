package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"studyhub_backend/internal/flashcards/repository"
	"studyhub_backend/platform/apperr"

	"github.com/google/uuid"
)

type fakeRepo struct {
	mu    sync.Mutex
	cards []repository.Flashcard
	err   error
}

func (r *fakeRepo) ListByDocument(_ context.Context, documentID, userID uuid.UUID) ([]repository.Flashcard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []repository.Flashcard
	for _, c := range r.cards {
		if c.DocumentID == documentID && c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateMany(_ context.Context, documentID, userID uuid.UUID, cards []repository.NewFlashcard) ([]repository.Flashcard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []repository.Flashcard
	for _, c := range cards {
		card := repository.Flashcard{ID: uuid.New(), DocumentID: documentID, UserID: userID, Question: c.Question, Answer: c.Answer, CreatedAt: time.Now()}
		r.cards = append(r.cards, card)
		out = append(out, card)
	}
	return out, nil
}

func (r *fakeRepo) ToggleFavorite(_ context.Context, id, userID uuid.UUID) (repository.Flashcard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.cards {
		if r.cards[i].ID == id && r.cards[i].UserID == userID {
			r.cards[i].IsFavorite = !r.cards[i].IsFavorite
			return r.cards[i], nil
		}
	}
	return repository.Flashcard{}, repository.ErrNotFound
}

func (r *fakeRepo) ListFavorites(_ context.Context, userID uuid.UUID) ([]repository.Flashcard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []repository.Flashcard
	for _, c := range r.cards {
		if c.UserID == userID && c.IsFavorite {
			c.DocumentName = "notes.pdf"
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeRepo) DeleteByDocument(_ context.Context, documentID, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.cards[:0]
	var n int64
	for _, c := range r.cards {
		if c.DocumentID == documentID && c.UserID == userID {
			n++
			continue
		}
		kept = append(kept, c)
	}
	r.cards = kept
	return n, nil
}

func seed(t *testing.T, repo *fakeRepo, userID, documentID uuid.UUID) []repository.Flashcard {
	t.Helper()
	cards, err := repo.CreateMany(context.Background(), documentID, userID, []repository.NewFlashcard{
		{Question: "What is ATP?", Answer: "Energy currency"},
		{Question: "What is DNA?", Answer: "Genetic material"},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return cards
}

func TestToggleFavorite_FlipsAndReportsState(t *testing.T) {
	repo := &fakeRepo{}
	userID, documentID := uuid.New(), uuid.New()
	cards := seed(t, repo, userID, documentID)
	svc := New(repo)

	got, err := svc.ToggleFavorite(context.Background(), cards[0].ID, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsFavorite {
		t.Fatal("expected card to become favorite")
	}

	favs, err := svc.Favorites(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(favs) != 1 || favs[0].DocumentName != "notes.pdf" {
		t.Fatalf("expected one favorite with document name, got %+v", favs)
	}

	got, _ = svc.ToggleFavorite(context.Background(), cards[0].ID, userID)
	if got.IsFavorite {
		t.Fatal("expected second toggle to clear favorite")
	}
}

func TestToggleFavorite_OtherUserIsNotFound(t *testing.T) {
	repo := &fakeRepo{}
	cards := seed(t, repo, uuid.New(), uuid.New())

	_, err := New(repo).ToggleFavorite(context.Background(), cards[0].ID, uuid.New())
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListByDocument_ScopedToOwner(t *testing.T) {
	repo := &fakeRepo{}
	userID, documentID := uuid.New(), uuid.New()
	seed(t, repo, userID, documentID)
	seed(t, repo, uuid.New(), documentID)

	cards, err := New(repo).ListByDocument(context.Background(), documentID, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}
	if cards[0].Question != "What is ATP?" {
		t.Fatalf("expected generation order, got %q first", cards[0].Question)
	}
}

func TestDeleteByDocument_ReportsCount(t *testing.T) {
	repo := &fakeRepo{}
	userID, documentID := uuid.New(), uuid.New()
	seed(t, repo, userID, documentID)

	n, err := New(repo).DeleteByDocument(context.Background(), documentID, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 deleted, got %d", n)
	}
}

func TestListByDocument_RepositoryFailureIsInternal(t *testing.T) {
	repo := &fakeRepo{err: errors.New("connection reset")}

	_, err := New(repo).ListByDocument(context.Background(), uuid.New(), uuid.New())
	if !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
}
