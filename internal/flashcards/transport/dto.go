package transport

import "time"

type FlashcardResponse struct {
	ID           string    `json:"id"`
	Question     string    `json:"question"`
	Answer       string    `json:"answer"`
	IsFavorite   bool      `json:"isFavorite"`
	DocumentName string    `json:"documentName,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type ListResponse struct {
	Flashcards []FlashcardResponse `json:"flashcards"`
}

type FavoriteToggle struct {
	ID         string `json:"id"`
	IsFavorite bool   `json:"isFavorite"`
}

type ToggleResponse struct {
	Flashcard FavoriteToggle `json:"flashcard"`
}

type DeleteResponse struct {
	Deleted int64 `json:"deleted"`
}
