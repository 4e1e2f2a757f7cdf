package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"studyhub_backend/internal/events"
	"studyhub_backend/internal/quizzes/repository"
	"studyhub_backend/platform/apperr"
	"studyhub_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	mu      sync.Mutex
	quizzes map[uuid.UUID]repository.Quiz
}

func newFakeRepo() *fakeRepo { return &fakeRepo{quizzes: map[uuid.UUID]repository.Quiz{}} }

func (r *fakeRepo) Create(_ context.Context, in repository.NewQuiz) (repository.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := repository.Quiz{
		ID: uuid.New(), DocumentID: in.DocumentID, UserID: in.UserID, Title: in.Title,
		Questions: in.Questions, TotalQuestions: len(in.Questions), CreatedAt: time.Now(),
	}
	r.quizzes[q.ID] = q
	return q, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id, userID uuid.UUID) (repository.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.quizzes[id]
	if !ok || q.UserID != userID {
		return repository.Quiz{}, repository.ErrNotFound
	}
	return q, nil
}

func (r *fakeRepo) Complete(_ context.Context, id, userID uuid.UUID, questions []repository.Question, score int) (repository.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.quizzes[id]
	if !ok || q.UserID != userID || q.IsCompleted {
		return repository.Quiz{}, repository.ErrAlreadyCompleted
	}
	now := time.Now()
	q.Questions, q.Score, q.IsCompleted, q.CompletedAt = questions, &score, true, &now
	r.quizzes[id] = q
	return q, nil
}

func (r *fakeRepo) History(_ context.Context, userID uuid.UUID, limit int) ([]repository.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []repository.Quiz
	for _, q := range r.quizzes {
		if q.UserID == userID && q.IsCompleted && len(out) < limit {
			q.DocumentName = "cells.pdf"
			out = append(out, q)
		}
	}
	return out, nil
}

type captureBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *captureBus) Publish(_ context.Context, e events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}
func (b *captureBus) PublishSync(ctx context.Context, e events.Event) error {
	b.Publish(ctx, e)
	return nil
}
func (b *captureBus) Subscribe(string, events.Handler) {}

func intPtr(v int) *int { return &v }

func sampleQuestions() []repository.Question {
	opts := []string{"A", "B", "C", "D"}
	return []repository.Question{
		{Question: "Q1", Options: opts, CorrectAnswer: 0, Explanation: "first"},
		{Question: "Q2", Options: opts, CorrectAnswer: 2, Explanation: "second"},
		{Question: "Q3", Options: opts, CorrectAnswer: 3, Explanation: "third"},
	}
}

func newTestService(t *testing.T) (*Service, *fakeRepo, *captureBus, uuid.UUID, uuid.UUID) {
	t.Helper()
	repo := newFakeRepo()
	bus := &captureBus{}
	userID := uuid.New()
	quiz, err := repo.Create(context.Background(), repository.NewQuiz{
		DocumentID: uuid.New(), UserID: userID, Title: "Quiz: cells.pdf", Questions: sampleQuestions(),
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return New(repo, bus, logger.NewWithWriter("test", io.Discard)), repo, bus, userID, quiz.ID
}

func TestSubmit_ScoresAndPublishes(t *testing.T) {
	svc, _, bus, userID, quizID := newTestService(t)

	res, err := svc.Submit(context.Background(), quizID, userID, []*int{intPtr(0), intPtr(1), intPtr(3)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 2 || res.TotalQuestions != 3 {
		t.Fatalf("expected 2/3, got %d/%d", res.Score, res.TotalQuestions)
	}
	if res.Percentage != 67 {
		t.Fatalf("expected 67%%, got %d", res.Percentage)
	}
	if res.Results[1].IsCorrect || *res.Results[1].UserAnswer != 1 {
		t.Fatalf("expected second answer recorded as wrong, got %+v", res.Results[1])
	}
	if len(bus.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(bus.events))
	}
	if e, ok := bus.events[0].(events.QuizCompleted); !ok || e.Score != 2 || e.Total != 3 {
		t.Fatalf("unexpected event %+v", bus.events[0])
	}
}

func TestSubmit_ShortAndNullAnswersCountAsWrong(t *testing.T) {
	svc, _, _, userID, quizID := newTestService(t)

	res, err := svc.Submit(context.Background(), quizID, userID, []*int{nil, intPtr(2)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 1 {
		t.Fatalf("expected score 1, got %d", res.Score)
	}
	if res.Results[0].UserAnswer != nil || res.Results[2].UserAnswer != nil {
		t.Fatal("expected skipped questions to have no user answer")
	}
}

func TestSubmit_Errors(t *testing.T) {
	svc, _, _, userID, quizID := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Submit(ctx, quizID, userID, nil); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for missing answers, got %v", err)
	}
	if _, err := svc.Submit(ctx, uuid.New(), userID, []*int{}); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.Submit(ctx, quizID, uuid.New(), []*int{}); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for other user, got %v", err)
	}
	if _, err := svc.Submit(ctx, quizID, userID, []*int{}); err != nil {
		t.Fatalf("unexpected error on first submit: %v", err)
	}
	_, err := svc.Submit(ctx, quizID, userID, []*int{})
	if !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request on resubmit, got %v", err)
	}
}

func TestPendingAndResult_DependOnCompletion(t *testing.T) {
	svc, _, _, userID, quizID := newTestService(t)
	ctx := context.Background()

	pending, err := svc.Pending(ctx, quizID, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pending.TotalQuestions != 3 || len(pending.Questions[0].Options) != 4 {
		t.Fatalf("unexpected pending quiz %+v", pending)
	}
	if _, err := svc.Result(ctx, quizID, userID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected result of untaken quiz to be not found, got %v", err)
	}

	if _, err := svc.Submit(ctx, quizID, userID, []*int{intPtr(0), intPtr(2), intPtr(3)}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := svc.Pending(ctx, quizID, userID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected completed quiz to be hidden from pending, got %v", err)
	}
	result, err := svc.Result(ctx, quizID, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Percentage != 100 || result.CompletedAt == nil {
		t.Fatalf("unexpected result %+v", result)
	}

	history, err := svc.History(ctx, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 1 || history[0].DocumentName != "cells.pdf" {
		t.Fatalf("unexpected history %+v", history)
	}
}

func TestPercentage(t *testing.T) {
	cases := []struct{ score, total, want int }{
		{0, 0, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{5, 5, 100},
	}
	for _, tc := range cases {
		if got := Percentage(tc.score, tc.total); got != tc.want {
			t.Fatalf("Percentage(%d, %d): expected %d, got %d", tc.score, tc.total, tc.want, got)
		}
	}
}
