package transport

import "time"

type DocumentResponse struct {
	ID         string    `json:"id"`
	FileName   string    `json:"fileName"`
	FileSize   int64     `json:"fileSize"`
	MimeType   string    `json:"mimeType"`
	PageCount  int       `json:"pageCount"`
	Summary    *string   `json:"summary"`
	UploadedAt time.Time `json:"uploadedAt"`
}

type UploadResponse struct {
	Document DocumentResponse `json:"document"`
}

type DocumentEnvelope struct {
	Document DocumentResponse `json:"document"`
}

type ListResponse struct {
	Documents []DocumentResponse `json:"documents"`
}

type Stats struct {
	TotalDocuments   int `json:"totalDocuments"`
	TotalFlashcards  int `json:"totalFlashcards"`
	CompletedQuizzes int `json:"completedQuizzes"`
}

type QuizActivity struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Score       *int       `json:"score"`
	Total       int        `json:"totalQuestions"`
	IsCompleted bool       `json:"isCompleted"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type RecentActivity struct {
	Documents []DocumentResponse `json:"documents"`
	Quizzes   []QuizActivity     `json:"quizzes"`
}

type StatsResponse struct {
	Stats          Stats          `json:"stats"`
	RecentActivity RecentActivity `json:"recentActivity"`
}
