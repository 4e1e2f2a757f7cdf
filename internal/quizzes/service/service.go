package service

import (
	"context"
	"errors"
	"math"

	"studyhub_backend/internal/events"
	"studyhub_backend/internal/quizzes/repository"
	"studyhub_backend/internal/quizzes/transport"
	"studyhub_backend/platform/apperr"
	"studyhub_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	msgNotFound         = "Quiz not found"
	msgAlreadyCompleted = "Quiz already completed"
	historyLimit        = 20
)

type Service struct {
	repo     repository.QuizRepository
	eventBus events.Bus
	log      *logger.Logger
}

func New(repo repository.QuizRepository, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, eventBus: eventBus, log: log}
}

// Pending returns a quiz that has not been taken yet, without answers.
func (s *Service) Pending(ctx context.Context, id, userID uuid.UUID) (transport.PendingQuiz, error) {
	quiz, err := s.load(ctx, id, userID, "quizzes.Pending")
	if err != nil {
		return transport.PendingQuiz{}, err
	}
	if quiz.IsCompleted {
		return transport.PendingQuiz{}, apperr.NotFound(msgNotFound)
	}

	views := make([]transport.QuestionView, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		views = append(views, transport.QuestionView{Question: q.Question, Options: q.Options})
	}
	return transport.PendingQuiz{
		ID:             quiz.ID.String(),
		Title:          quiz.Title,
		Questions:      views,
		TotalQuestions: len(quiz.Questions),
	}, nil
}

// Submit grades answers positionally. Missing or null answers count as wrong.
func (s *Service) Submit(ctx context.Context, id, userID uuid.UUID, answers []*int) (transport.SubmitResponse, error) {
	if answers == nil {
		return transport.SubmitResponse{}, apperr.Validation("Answers are required")
	}

	quiz, err := s.load(ctx, id, userID, "quizzes.Submit")
	if err != nil {
		return transport.SubmitResponse{}, err
	}
	if quiz.IsCompleted {
		return transport.SubmitResponse{}, apperr.BadRequest(msgAlreadyCompleted)
	}

	graded, score := Grade(quiz.Questions, answers)
	completed, err := s.repo.Complete(ctx, id, userID, graded, score)
	if errors.Is(err, repository.ErrAlreadyCompleted) {
		return transport.SubmitResponse{}, apperr.BadRequest(msgAlreadyCompleted)
	}
	if err != nil {
		return transport.SubmitResponse{}, apperr.Internal("Failed to submit quiz").WithOp("quizzes.Submit").WithErr(err)
	}

	s.eventBus.Publish(ctx, events.QuizCompleted{
		BaseEvent:  events.NewBaseEvent(),
		QuizID:     completed.ID,
		UserID:     userID,
		DocumentID: completed.DocumentID,
		Score:      score,
		Total:      len(graded),
	})
	if s.log != nil {
		s.log.WithContext(ctx).Info("quiz submitted", "quizId", id, "score", score, "total", len(graded))
	}

	return transport.SubmitResponse{
		Score:          score,
		TotalQuestions: len(graded),
		Percentage:     Percentage(score, len(graded)),
		Results:        results(graded),
	}, nil
}

// Result returns a completed quiz with per-question feedback.
func (s *Service) Result(ctx context.Context, id, userID uuid.UUID) (transport.QuizResult, error) {
	quiz, err := s.load(ctx, id, userID, "quizzes.Result")
	if err != nil {
		return transport.QuizResult{}, err
	}
	if !quiz.IsCompleted {
		return transport.QuizResult{}, apperr.NotFound(msgNotFound)
	}

	score := scoreOf(quiz)
	return transport.QuizResult{
		ID:             quiz.ID.String(),
		Title:          quiz.Title,
		Score:          score,
		TotalQuestions: quiz.TotalQuestions,
		Percentage:     Percentage(score, quiz.TotalQuestions),
		CompletedAt:    quiz.CompletedAt,
		Results:        results(quiz.Questions),
	}, nil
}

func (s *Service) History(ctx context.Context, userID uuid.UUID) ([]transport.HistoryItem, error) {
	quizzes, err := s.repo.History(ctx, userID, historyLimit)
	if err != nil {
		return nil, apperr.Internal("Failed to get quiz history").WithOp("quizzes.History").WithErr(err)
	}

	items := make([]transport.HistoryItem, 0, len(quizzes))
	for _, q := range quizzes {
		score := scoreOf(q)
		items = append(items, transport.HistoryItem{
			ID:             q.ID.String(),
			Title:          q.Title,
			DocumentName:   q.DocumentName,
			Score:          score,
			TotalQuestions: q.TotalQuestions,
			Percentage:     Percentage(score, q.TotalQuestions),
			CompletedAt:    q.CompletedAt,
		})
	}
	return items, nil
}

func (s *Service) load(ctx context.Context, id, userID uuid.UUID, op string) (repository.Quiz, error) {
	quiz, err := s.repo.GetByID(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Quiz{}, apperr.NotFound(msgNotFound)
	}
	if err != nil {
		return repository.Quiz{}, apperr.Internal("Failed to get quiz").WithOp(op).WithErr(err)
	}
	return quiz, nil
}

// Grade copies questions with the user's answers attached and counts exact matches.
func Grade(questions []repository.Question, answers []*int) ([]repository.Question, int) {
	graded := make([]repository.Question, len(questions))
	score := 0
	for i, q := range questions {
		q.UserAnswer = nil
		if i < len(answers) && answers[i] != nil {
			answer := *answers[i]
			q.UserAnswer = &answer
			if answer == q.CorrectAnswer {
				score++
			}
		}
		graded[i] = q
	}
	return graded, score
}

// Percentage rounds half away from zero; an empty quiz scores 0.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}

func scoreOf(q repository.Quiz) int {
	if q.Score == nil {
		return 0
	}
	return *q.Score
}

func results(questions []repository.Question) []transport.QuestionResult {
	out := make([]transport.QuestionResult, 0, len(questions))
	for _, q := range questions {
		out = append(out, transport.QuestionResult{
			Question:      q.Question,
			Options:       q.Options,
			UserAnswer:    q.UserAnswer,
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     q.UserAnswer != nil && *q.UserAnswer == q.CorrectAnswer,
			Explanation:   q.Explanation,
		})
	}
	return out
}
