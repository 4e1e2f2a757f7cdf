package transport

import "time"

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type HistoryResponse struct {
	Messages []ChatMessage `json:"messages"`
}

type SummaryResponse struct {
	Summary string `json:"summary"`
	Cached  bool   `json:"cached"`
}

type ExplainRequest struct {
	Concept string `json:"concept"`
}

type ExplainResponse struct {
	Explanation string `json:"explanation"`
}

type Flashcard struct {
	ID         string `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	IsFavorite bool   `json:"isFavorite"`
}

type FlashcardsResponse struct {
	Flashcards []Flashcard `json:"flashcards"`
	Cached     bool        `json:"cached"`
}

type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type Quiz struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Questions      []QuizQuestion `json:"questions"`
	TotalQuestions int            `json:"totalQuestions"`
}

type QuizResponse struct {
	Quiz Quiz `json:"quiz"`
}
