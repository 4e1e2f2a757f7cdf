package adapters

import (
	"context"
	"fmt"

	"studyhub_backend/internal/assistant/ports"
	quizrepo "studyhub_backend/internal/quizzes/repository"

	"github.com/google/uuid"
)

// AssistantQuizStore adapts the quizzes repository for the assistant,
// satisfying ports.QuizStore.
type AssistantQuizStore struct {
	repo quizrepo.QuizRepository
}

func NewAssistantQuizStore(repo quizrepo.QuizRepository) *AssistantQuizStore {
	return &AssistantQuizStore{repo: repo}
}

func (a *AssistantQuizStore) Create(ctx context.Context, documentID, userID uuid.UUID, title string, questions []ports.QuizQuestion) (ports.Quiz, error) {
	stored := make([]quizrepo.Question, 0, len(questions))
	for _, q := range questions {
		stored = append(stored, quizrepo.Question{
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		})
	}

	quiz, err := a.repo.Create(ctx, quizrepo.NewQuiz{
		DocumentID: documentID,
		UserID:     userID,
		Title:      title,
		Questions:  stored,
	})
	if err != nil {
		return ports.Quiz{}, fmt.Errorf("quizzes adapter: create: %w", err)
	}

	out := ports.Quiz{ID: quiz.ID, Title: quiz.Title, Questions: make([]ports.QuizQuestion, 0, len(quiz.Questions))}
	for _, q := range quiz.Questions {
		out.Questions = append(out.Questions, ports.QuizQuestion{
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		})
	}
	return out, nil
}

var _ ports.QuizStore = (*AssistantQuizStore)(nil)
