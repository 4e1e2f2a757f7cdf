package searchclient

import "studyhub_backend/internal/search/transport"

// Target returns the view path a selected item navigates to. Flashcard items
// already carry their document's id.
func Target(item Item) string {
	switch item.Category {
	case transport.CategoryQuiz:
		return "/quiz/" + item.ID + "/result"
	default:
		return "/documents/" + item.ID
	}
}
