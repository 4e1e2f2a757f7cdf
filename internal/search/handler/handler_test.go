package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"studyhub_backend/internal/search/repository"
	"studyhub_backend/internal/search/service"
	"studyhub_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type stubStore struct {
	err error
}

func (s stubStore) SearchDocuments(_ context.Context, f repository.Filter) ([]repository.DocumentHit, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []repository.DocumentHit{{ID: uuid.New(), Name: "Algebra", UploadedAt: time.Now()}}, nil
}

func (s stubStore) SearchQuizzes(context.Context, repository.Filter) ([]repository.QuizHit, error) {
	return nil, nil
}

func (s stubStore) SearchFlashcards(context.Context, repository.Filter) ([]repository.FlashcardHit, error) {
	return nil, nil
}

func newEngine(store stubStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	h := New(service.New(store, store, store, nil))
	group := engine.Group("/search", func(c *gin.Context) {
		c.Set(httpkit.ContextUserIDKey, uuid.New())
	})
	h.RegisterRoutes(group)
	return engine
}

func get(engine *gin.Engine, q string) (*httptest.ResponseRecorder, map[string]any) {
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search?q="+url.QueryEscape(q), nil))
	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestSearch_Success(t *testing.T) {
	rec, body := get(newEngine(stubStore{}), "alg")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["success"] != true {
		t.Fatal("expected success=true")
	}
	data := body["data"].(map[string]any)
	docs := data["documents"].([]any)
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if docs[0].(map[string]any)["category"] != "document" {
		t.Fatalf("unexpected item %v", docs[0])
	}
	if quizzes, ok := data["quizzes"].([]any); !ok || len(quizzes) != 0 {
		t.Fatalf("expected empty quizzes array, got %v", data["quizzes"])
	}
}

func TestSearch_ShortQuery(t *testing.T) {
	rec, body := get(newEngine(stubStore{}), " a ")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body["message"] != "Search query must be at least 2 characters" {
		t.Fatalf("unexpected message %v", body["message"])
	}
}

func TestSearch_Failure(t *testing.T) {
	rec, body := get(newEngine(stubStore{err: errors.New("timeout")}), "algebra")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body["message"] != "Search failed" || body["success"] != false {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestSearch_RequiresIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	New(service.New(stubStore{}, stubStore{}, stubStore{}, nil)).RegisterRoutes(engine.Group("/search"))

	rec, _ := get(engine, "algebra")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
