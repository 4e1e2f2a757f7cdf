package transport

import "time"

type SubmitRequest struct {
	// Answers holds the chosen option index per question; null marks a skipped question.
	Answers []*int `json:"answers"`
}

type QuestionView struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type PendingQuiz struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Questions      []QuestionView `json:"questions"`
	TotalQuestions int            `json:"totalQuestions"`
}

type PendingResponse struct {
	Quiz PendingQuiz `json:"quiz"`
}

type QuestionResult struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	UserAnswer    *int     `json:"userAnswer"`
	CorrectAnswer int      `json:"correctAnswer"`
	IsCorrect     bool     `json:"isCorrect"`
	Explanation   string   `json:"explanation"`
}

type SubmitResponse struct {
	Score          int              `json:"score"`
	TotalQuestions int              `json:"totalQuestions"`
	Percentage     int              `json:"percentage"`
	Results        []QuestionResult `json:"results"`
}

type QuizResult struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Score          int              `json:"score"`
	TotalQuestions int              `json:"totalQuestions"`
	Percentage     int              `json:"percentage"`
	CompletedAt    *time.Time       `json:"completedAt"`
	Results        []QuestionResult `json:"results"`
}

type ResultResponse struct {
	Quiz QuizResult `json:"quiz"`
}

type HistoryItem struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	DocumentName   string     `json:"documentName"`
	Score          int        `json:"score"`
	TotalQuestions int        `json:"totalQuestions"`
	Percentage     int        `json:"percentage"`
	CompletedAt    *time.Time `json:"completedAt"`
}

type HistoryResponse struct {
	Quizzes []HistoryItem `json:"quizzes"`
}
