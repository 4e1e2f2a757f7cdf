package transport

// Result categories.
const (
	CategoryDocument  = "document"
	CategoryQuiz      = "quiz"
	CategoryFlashcard = "flashcard"
)

type SearchRequest struct {
	Query string `form:"q"`
}

// SearchResultItem is a display projection of a matching record. It is never
// persisted. For flashcards, ID holds the owning document's id.
type SearchResultItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Category string `json:"category"`
	Date     string `json:"date"`
}

// SearchResponse groups results by category, each capped at five.
type SearchResponse struct {
	Documents  []SearchResultItem `json:"documents"`
	Quizzes    []SearchResultItem `json:"quizzes"`
	Flashcards []SearchResultItem `json:"flashcards"`
}

// Flatten returns documents, then quizzes, then flashcards.
func (r SearchResponse) Flatten() []SearchResultItem {
	out := make([]SearchResultItem, 0, len(r.Documents)+len(r.Quizzes)+len(r.Flashcards))
	out = append(out, r.Documents...)
	out = append(out, r.Quizzes...)
	return append(out, r.Flashcards...)
}

// Total counts results across all categories.
func (r SearchResponse) Total() int {
	return len(r.Documents) + len(r.Quizzes) + len(r.Flashcards)
}
