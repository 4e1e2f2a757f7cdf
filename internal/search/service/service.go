package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"studyhub_backend/internal/search/repository"
	"studyhub_backend/internal/search/transport"
	"studyhub_backend/platform/apperr"
	"studyhub_backend/platform/logger"
	"studyhub_backend/platform/sanitize"
)

const (
	// MinQueryLength is counted in runes after trimming.
	MinQueryLength = 2
	// CategoryLimit caps each result category.
	CategoryLimit = 5

	titleMaxLen    = 60
	subtitleMaxLen = 80

	msgQueryTooShort = "Search query must be at least 2 characters"
	msgSearchFailed  = "Search failed"
	noSummary        = "No summary"
	notCompleted     = "Not completed"
)

type Service struct {
	documents  repository.DocumentSearcher
	quizzes    repository.QuizSearcher
	flashcards repository.FlashcardSearcher
	log        *logger.Logger
}

func New(documents repository.DocumentSearcher, quizzes repository.QuizSearcher, flashcards repository.FlashcardSearcher, log *logger.Logger) *Service {
	return &Service{documents: documents, quizzes: quizzes, flashcards: flashcards, log: log}
}

// Search matches rawQuery literally against the caller's documents, quizzes
// and flashcards. The three lookups run concurrently; if any fails the whole
// call fails and no partial result is returned.
func (s *Service) Search(ctx context.Context, userID uuid.UUID, rawQuery string) (*transport.SearchResponse, error) {
	query := strings.TrimSpace(rawQuery)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return nil, apperr.Validation(msgQueryTooShort)
	}

	started := time.Now()
	filter := repository.Filter{
		OwnerID: userID,
		Pattern: sanitize.Pattern(query),
		Limit:   CategoryLimit,
	}

	var (
		docs  []repository.DocumentHit
		quiz  []repository.QuizHit
		cards []repository.FlashcardHit
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		docs, err = s.documents.SearchDocuments(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		quiz, err = s.quizzes.SearchQuizzes(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		cards, err = s.flashcards.SearchFlashcards(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperr.Internal(msgSearchFailed).WithOp("search.Search").WithErr(err)
	}

	resp := &transport.SearchResponse{
		Documents:  shapeDocuments(docs),
		Quizzes:    shapeQuizzes(quiz),
		Flashcards: shapeFlashcards(cards),
	}

	if s.log != nil {
		s.log.WithContext(ctx).SearchExecuted(userID.String(), utf8.RuneCountInString(query),
			len(resp.Documents), len(resp.Quizzes), len(resp.Flashcards), time.Since(started))
	}
	return resp, nil
}

func shapeDocuments(hits []repository.DocumentHit) []transport.SearchResultItem {
	items := make([]transport.SearchResultItem, 0, min(len(hits), CategoryLimit))
	for _, h := range capped(hits) {
		subtitle := noSummary
		if h.Summary != nil && *h.Summary != "" {
			subtitle = truncate(*h.Summary, subtitleMaxLen)
		}
		items = append(items, transport.SearchResultItem{
			ID:       h.ID.String(),
			Title:    h.Name,
			Subtitle: subtitle,
			Category: transport.CategoryDocument,
			Date:     formatDate(h.UploadedAt),
		})
	}
	return items
}

func shapeQuizzes(hits []repository.QuizHit) []transport.SearchResultItem {
	items := make([]transport.SearchResultItem, 0, min(len(hits), CategoryLimit))
	for _, h := range capped(hits) {
		subtitle := notCompleted
		if h.IsCompleted {
			score := 0
			if h.Score != nil {
				score = *h.Score
			}
			subtitle = fmt.Sprintf("Score: %d/%d", score, h.TotalQuestions)
		}
		items = append(items, transport.SearchResultItem{
			ID:       h.ID.String(),
			Title:    h.Title,
			Subtitle: subtitle,
			Category: transport.CategoryQuiz,
			Date:     formatDate(h.CreatedAt),
		})
	}
	return items
}

func shapeFlashcards(hits []repository.FlashcardHit) []transport.SearchResultItem {
	items := make([]transport.SearchResultItem, 0, min(len(hits), CategoryLimit))
	for _, h := range capped(hits) {
		items = append(items, transport.SearchResultItem{
			ID:       h.DocumentID.String(),
			Title:    truncate(h.Question, titleMaxLen),
			Subtitle: truncate(h.Answer, subtitleMaxLen),
			Category: transport.CategoryFlashcard,
			Date:     formatDate(h.CreatedAt),
		})
	}
	return items
}

// capped guards the per-category limit even if a store ignores Filter.Limit.
func capped[T any](hits []T) []T {
	if len(hits) > CategoryLimit {
		return hits[:CategoryLimit]
	}
	return hits
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}

func formatDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
