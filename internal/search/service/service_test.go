package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"studyhub_backend/internal/search/repository"
	"studyhub_backend/internal/search/transport"
	"studyhub_backend/platform/apperr"
)

type fakeDocument struct {
	id       uuid.UUID
	owner    uuid.UUID
	name     string
	summary  *string
	uploaded time.Time
}

type fakeQuiz struct {
	id        uuid.UUID
	owner     uuid.UUID
	title     string
	score     *int
	total     int
	completed bool
	created   time.Time
}

type fakeFlashcard struct {
	owner    uuid.UUID
	document uuid.UUID
	question string
	answer   string
	created  time.Time
}

// fakeStore mirrors the SQL: owner scoped, case-insensitive regex, newest
// first, limited. With ignoreLimit set it returns every match, like a store
// that forgets the LIMIT clause.
type fakeStore struct {
	docs        []fakeDocument
	quizzes     []fakeQuiz
	cards       []fakeFlashcard
	err         error
	ignoreLimit bool
	calls       atomic.Int32
}

func (f *fakeStore) compile(filter repository.Filter) *regexp.Regexp {
	f.calls.Add(1)
	return regexp.MustCompile("(?i)" + filter.Pattern)
}

// newestFirst orders hits by descending time and applies the filter limit.
func newestFirst[T any](f *fakeStore, hits []T, at func(T) time.Time, limit int) []T {
	sort.SliceStable(hits, func(i, j int) bool { return at(hits[i]).After(at(hits[j])) })
	if !f.ignoreLimit && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

func (f *fakeStore) SearchDocuments(_ context.Context, filter repository.Filter) ([]repository.DocumentHit, error) {
	re := f.compile(filter)
	if f.err != nil {
		return nil, f.err
	}
	var hits []repository.DocumentHit
	for _, d := range f.docs {
		summary := ""
		if d.summary != nil {
			summary = *d.summary
		}
		if d.owner == filter.OwnerID && (re.MatchString(d.name) || re.MatchString(summary)) {
			hits = append(hits, repository.DocumentHit{ID: d.id, Name: d.name, Summary: d.summary, UploadedAt: d.uploaded})
		}
	}
	return newestFirst(f, hits, func(h repository.DocumentHit) time.Time { return h.UploadedAt }, filter.Limit), nil
}

func (f *fakeStore) SearchQuizzes(_ context.Context, filter repository.Filter) ([]repository.QuizHit, error) {
	re := f.compile(filter)
	var hits []repository.QuizHit
	for _, q := range f.quizzes {
		if q.owner == filter.OwnerID && re.MatchString(q.title) {
			hits = append(hits, repository.QuizHit{ID: q.id, Title: q.title, Score: q.score, TotalQuestions: q.total, IsCompleted: q.completed, CreatedAt: q.created})
		}
	}
	return newestFirst(f, hits, func(h repository.QuizHit) time.Time { return h.CreatedAt }, filter.Limit), nil
}

func (f *fakeStore) SearchFlashcards(_ context.Context, filter repository.Filter) ([]repository.FlashcardHit, error) {
	re := f.compile(filter)
	var hits []repository.FlashcardHit
	for _, c := range f.cards {
		if c.owner == filter.OwnerID && (re.MatchString(c.question) || re.MatchString(c.answer)) {
			hits = append(hits, repository.FlashcardHit{DocumentID: c.document, Question: c.question, Answer: c.answer, CreatedAt: c.created})
		}
	}
	return newestFirst(f, hits, func(h repository.FlashcardHit) time.Time { return h.CreatedAt }, filter.Limit), nil
}

func newService(store *fakeStore) *Service {
	return New(store, store, store, nil)
}

func ptr[T any](v T) *T { return &v }

var base = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestSearch_RejectsShortQueries(t *testing.T) {
	store := &fakeStore{}
	svc := newService(store)

	for _, q := range []string{"", " ", "a", "  b  ", "é"} {
		_, err := svc.Search(context.Background(), uuid.New(), q)
		if !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("query %q: expected validation error, got %v", q, err)
		}
		var appErr *apperr.Error
		if errors.As(err, &appErr) && appErr.Message != msgQueryTooShort {
			t.Fatalf("unexpected message %q", appErr.Message)
		}
	}
	if store.calls.Load() != 0 {
		t.Fatalf("expected no store calls, got %d", store.calls.Load())
	}
}

func TestSearch_TwoRuneQueryIsAccepted(t *testing.T) {
	store := &fakeStore{}
	resp, err := newService(store).Search(context.Background(), uuid.New(), " éé ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Total() != 0 {
		t.Fatalf("expected empty result, got %d", resp.Total())
	}
	if resp.Documents == nil || resp.Quizzes == nil || resp.Flashcards == nil {
		t.Fatal("expected empty slices rather than nil so JSON renders []")
	}
}

func TestSearch_ShapesAllCategories(t *testing.T) {
	owner := uuid.New()
	docID := uuid.New()
	quizID := uuid.New()
	longSummary := strings.Repeat("b", 100)

	store := &fakeStore{
		docs: []fakeDocument{
			{id: docID, owner: owner, name: "Biology notes", summary: &longSummary, uploaded: base},
		},
		quizzes: []fakeQuiz{
			{id: quizID, owner: owner, title: "Quiz: Biology notes", score: ptr(4), total: 5, completed: true, created: base},
			{id: uuid.New(), owner: owner, title: "Quiz: Biology II", total: 5, created: base.Add(time.Hour)},
		},
		cards: []fakeFlashcard{
			{owner: owner, document: docID, question: "What is biology? " + strings.Repeat("q", 60), answer: "Study of life", created: base},
		},
	}

	resp, err := newService(store).Search(context.Background(), owner, "  biology ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resp.Documents) != 1 {
		t.Fatalf("expected 1 document, got %d", len(resp.Documents))
	}
	doc := resp.Documents[0]
	if doc.Subtitle != strings.Repeat("b", 80)+"..." {
		t.Fatalf("expected truncated summary, got %q", doc.Subtitle)
	}
	if doc.Category != transport.CategoryDocument || doc.Date != "2025-03-01T12:00:00Z" {
		t.Fatalf("unexpected document item %+v", doc)
	}

	if len(resp.Quizzes) != 2 {
		t.Fatalf("expected 2 quizzes, got %d", len(resp.Quizzes))
	}
	if resp.Quizzes[0].Subtitle != notCompleted {
		t.Fatalf("expected newest quiz first and not completed, got %q", resp.Quizzes[0].Subtitle)
	}
	if resp.Quizzes[1].Subtitle != "Score: 4/5" || resp.Quizzes[1].ID != quizID.String() {
		t.Fatalf("unexpected completed quiz item %+v", resp.Quizzes[1])
	}

	if len(resp.Flashcards) != 1 {
		t.Fatalf("expected 1 flashcard, got %d", len(resp.Flashcards))
	}
	card := resp.Flashcards[0]
	if card.ID != docID.String() {
		t.Fatalf("expected flashcard id to be the document id, got %s", card.ID)
	}
	if len([]rune(card.Title)) != 63 || !strings.HasSuffix(card.Title, "...") {
		t.Fatalf("expected title truncated to 60 + ellipsis, got %q", card.Title)
	}
	if card.Subtitle != "Study of life" {
		t.Fatalf("expected short answer untouched, got %q", card.Subtitle)
	}
}

func TestSearch_NoSummaryAndExactBoundary(t *testing.T) {
	owner := uuid.New()
	exact := strings.Repeat("s", 80)
	store := &fakeStore{docs: []fakeDocument{
		{id: uuid.New(), owner: owner, name: "chem plain", uploaded: base},
		{id: uuid.New(), owner: owner, name: "chem exact", summary: &exact, uploaded: base.Add(time.Minute)},
	}}

	resp, err := newService(store).Search(context.Background(), owner, "chem")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Documents[0].Subtitle != exact {
		t.Fatalf("expected 80-char summary without ellipsis, got %q", resp.Documents[0].Subtitle)
	}
	if resp.Documents[1].Subtitle != noSummary {
		t.Fatalf("expected %q, got %q", noSummary, resp.Documents[1].Subtitle)
	}
}

func TestSearch_MetacharactersMatchLiterally(t *testing.T) {
	owner := uuid.New()
	store := &fakeStore{docs: []fakeDocument{
		{id: uuid.New(), owner: owner, name: "C++ primer", uploaded: base},
		{id: uuid.New(), owner: owner, name: "Cpp basics", uploaded: base},
	}}

	resp, err := newService(store).Search(context.Background(), owner, "c++")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Documents) != 1 || resp.Documents[0].Title != "C++ primer" {
		t.Fatalf("expected only the literal match, got %+v", resp.Documents)
	}

	if _, err := newService(store).Search(context.Background(), owner, "(["); err != nil {
		t.Fatalf("expected unbalanced metacharacters to be safe, got %v", err)
	}
}

func TestSearch_ScopesToOwnerAndCapsAtFive(t *testing.T) {
	owner := uuid.New()
	store := &fakeStore{}
	for i := 0; i < 8; i++ {
		store.docs = append(store.docs, fakeDocument{id: uuid.New(), owner: owner, name: "history chapter", uploaded: base.Add(time.Duration(i) * time.Hour)})
	}
	store.docs = append(store.docs, fakeDocument{id: uuid.New(), owner: uuid.New(), name: "history of someone else", uploaded: base.Add(24 * time.Hour)})

	resp, err := newService(store).Search(context.Background(), owner, "history")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Documents) != CategoryLimit {
		t.Fatalf("expected %d documents, got %d", CategoryLimit, len(resp.Documents))
	}
	if resp.Documents[0].Date != formatDate(base.Add(7*time.Hour)) {
		t.Fatalf("expected newest owned document first, got %s", resp.Documents[0].Date)
	}
}

func TestSearch_StoreFailureFailsWholeCall(t *testing.T) {
	store := &fakeStore{err: errors.New("connection reset")}

	resp, err := newService(store).Search(context.Background(), uuid.New(), "physics")
	if resp != nil {
		t.Fatal("expected no partial data")
	}
	if !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Message != msgSearchFailed {
		t.Fatalf("expected %q, got %v", msgSearchFailed, err)
	}
}

func TestTruncate_CountsRunes(t *testing.T) {
	s := strings.Repeat("ü", 61)
	got := truncate(s, 60)
	if got != strings.Repeat("ü", 60)+"..." {
		t.Fatalf("unexpected truncation %q", got)
	}
}

// shuffledHours lists base+0h..base+(n-1)h in scrambled order, shuffled so the store has to order them.
func shuffledHours(n int) []time.Time {
	order := []int{3, 0, 5, 1, 4, 2, 7, 6}
	out := make([]time.Time, 0, n)
	for _, h := range order {
		if h < n {
			out = append(out, base.Add(time.Duration(h)*time.Hour))
		}
	}
	return out
}

func TestSearch_EachCategoryCapsOrdersAndScopes(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	docID := uuid.New()

	cases := []struct {
		name  string
		seed  func(s *fakeStore, owner uuid.UUID, at time.Time, i int)
		items func(r *transport.SearchResponse) []transport.SearchResultItem
	}{
		{
			name: "documents",
			seed: func(s *fakeStore, o uuid.UUID, at time.Time, i int) {
				s.docs = append(s.docs, fakeDocument{id: uuid.New(), owner: o, name: fmt.Sprintf("Genetics part %d", i), uploaded: at})
			},
			items: func(r *transport.SearchResponse) []transport.SearchResultItem { return r.Documents },
		},
		{
			name: "quizzes",
			seed: func(s *fakeStore, o uuid.UUID, at time.Time, i int) {
				s.quizzes = append(s.quizzes, fakeQuiz{id: uuid.New(), owner: o, title: fmt.Sprintf("Quiz: Genetics %d", i), total: 5, created: at})
			},
			items: func(r *transport.SearchResponse) []transport.SearchResultItem { return r.Quizzes },
		},
		{
			name: "flashcards",
			seed: func(s *fakeStore, o uuid.UUID, at time.Time, i int) {
				s.cards = append(s.cards, fakeFlashcard{owner: o, document: docID, question: fmt.Sprintf("Genetics question %d", i), answer: "an answer", created: at})
			},
			items: func(r *transport.SearchResponse) []transport.SearchResultItem { return r.Flashcards },
		},
	}

	for _, tc := range cases {
		for _, ignoreLimit := range []bool{false, true} {
			store := &fakeStore{ignoreLimit: ignoreLimit}
			for i, at := range shuffledHours(6) {
				tc.seed(store, owner, at, i)
			}
			// A newer match owned by someone else must never appear.
			tc.seed(store, stranger, base.Add(48*time.Hour), 99)

			resp, err := newService(store).Search(context.Background(), owner, "genetics")
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", tc.name, err)
			}
			items := tc.items(resp)
			if len(items) != CategoryLimit {
				t.Fatalf("%s (ignoreLimit=%v): expected %d items, got %d", tc.name, ignoreLimit, CategoryLimit, len(items))
			}
			for i, item := range items {
				want := formatDate(base.Add(time.Duration(5-i) * time.Hour))
				if item.Date != want {
					t.Fatalf("%s: item %d expected date %s, got %s", tc.name, i, want, item.Date)
				}
				if strings.Contains(item.Title, "99") {
					t.Fatalf("%s: foreign record leaked into results: %+v", tc.name, item)
				}
			}
		}
	}
}

func TestSearch_ForeignRecordsOnlyGiveEmptyResult(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	store := &fakeStore{
		docs:    []fakeDocument{{id: uuid.New(), owner: stranger, name: "Organic chemistry", uploaded: base}},
		quizzes: []fakeQuiz{{id: uuid.New(), owner: stranger, title: "Quiz: Organic chemistry", total: 5, created: base}},
		cards:   []fakeFlashcard{{owner: stranger, document: uuid.New(), question: "What is organic chemistry?", answer: "Carbon compounds", created: base}},
	}

	resp, err := newService(store).Search(context.Background(), owner, "organic")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Total() != 0 {
		t.Fatalf("expected no results for another user's data, got %+v", resp)
	}
}

func TestSearch_TwoLetterQueryMatchesInsideWord(t *testing.T) {
	owner := uuid.New()
	docID := uuid.New()
	store := &fakeStore{docs: []fakeDocument{
		{id: docID, owner: owner, name: "Abstract Algebra", uploaded: base},
	}}

	resp, err := newService(store).Search(context.Background(), owner, "ab")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Documents) != 1 {
		t.Fatalf("expected 1 document, got %d", len(resp.Documents))
	}
	doc := resp.Documents[0]
	if doc.ID != docID.String() || doc.Title != "Abstract Algebra" || doc.Subtitle != noSummary {
		t.Fatalf("unexpected document item %+v", doc)
	}
	if len(resp.Quizzes) != 0 || len(resp.Flashcards) != 0 {
		t.Fatalf("expected other categories empty, got %+v", resp)
	}
}
