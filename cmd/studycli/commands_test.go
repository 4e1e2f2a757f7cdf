package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"studyhub_backend/internal/searchclient"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
	Auth   string
}

type testServer struct {
	server   *httptest.Server
	requests []recordedRequest
}

func newTestServer(t *testing.T, responses map[string]string) *testServer {
	t.Helper()
	ts := &testServer{}

	ts.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body bytes.Buffer
		_, _ = body.ReadFrom(r.Body)

		ts.requests = append(ts.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.RequestURI(),
			Body:   body.String(),
			Auth:   r.Header.Get("Authorization"),
		})

		key := r.Method + " " + r.URL.Path
		if resp, ok := responses[key]; ok {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(resp))
			return
		}

		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"message":"Route not found"}`))
	}))

	t.Cleanup(ts.server.Close)
	return ts
}

// execute runs rootCmd with args against ts and returns stdout.
func execute(t *testing.T, ts *testServer, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--server", ts.server.URL, "--token", "test-token", "--no-color"}, args...))
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

const searchResponse = `{"success":true,"data":{
	"documents":[{"id":"d1","title":"Algebra notes.pdf","subtitle":"Linear equations","category":"document","date":"2026-01-02T10:00:00Z"}],
	"quizzes":[{"id":"q1","title":"Quiz: Algebra notes.pdf","subtitle":"Score: 4/5","category":"quiz","date":"2026-01-03T10:00:00Z"}],
	"flashcards":[]
}}`

func TestLoginCommand_PrintsToken(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"POST /api/v1/auth/login": `{"success":true,"data":{"user":{"id":"u1","name":"Ada","email":"ada@example.com"},"token":"jwt-abc"}}`,
	})

	out, err := execute(t, ts, "", "login", "--email", "ada@example.com", "--password", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "jwt-abc" {
		t.Fatalf("expected token on stdout, got %q", out)
	}

	var body map[string]string
	if err := json.Unmarshal([]byte(ts.requests[0].Body), &body); err != nil {
		t.Fatalf("invalid request body: %v", err)
	}
	if body["email"] != "ada@example.com" || body["password"] != "secret" {
		t.Fatalf("unexpected login body %v", body)
	}
}

func TestLoginCommand_MissingFlags(t *testing.T) {
	ts := newTestServer(t, nil)

	_, err := execute(t, ts, "", "login", "--email", "", "--password", "")
	if err == nil || !strings.Contains(err.Error(), "required") {
		t.Fatalf("expected required-flags error, got %v", err)
	}
	if len(ts.requests) != 0 {
		t.Fatalf("expected no request, got %d", len(ts.requests))
	}
}

func TestLoginCommand_ServerRejects(t *testing.T) {
	ts := newTestServer(t, nil)

	_, err := execute(t, ts, "", "login", "--email", "ada@example.com", "--password", "wrong")
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected server error, got %v", err)
	}
}

func TestSearchCommand_RendersTargets(t *testing.T) {
	ts := newTestServer(t, map[string]string{"GET /api/v1/search": searchResponse})

	out, err := execute(t, ts, "", "search", "alg", "notes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "/documents/d1") || !strings.Contains(out, "/quiz/q1/result") {
		t.Fatalf("expected navigation targets in output, got %q", out)
	}
	if ts.requests[0].Path != "/api/v1/search?q=alg+notes" {
		t.Fatalf("unexpected request path %q", ts.requests[0].Path)
	}
	if ts.requests[0].Auth != "Bearer test-token" {
		t.Fatalf("expected bearer token, got %q", ts.requests[0].Auth)
	}
}

func TestSearchCommand_ShortQuery(t *testing.T) {
	ts := newTestServer(t, nil)

	if _, err := execute(t, ts, "", "search", "a"); err == nil {
		t.Fatal("expected error for one-character query")
	}
	if len(ts.requests) != 0 {
		t.Fatal("expected no request for a short query")
	}
}

func TestBrowseCommand_SelectsHighlightedItem(t *testing.T) {
	ts := newTestServer(t, map[string]string{"GET /api/v1/search": searchResponse})

	stdin := "alg\n:down\n:down\n:enter\n:quit\n"
	out, err := execute(t, ts, stdin, "browse", "--debounce", "1ms")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "> [quiz]") {
		t.Fatalf("expected quiz to be highlighted, got %q", out)
	}
	if !strings.Contains(out, "open /quiz/q1/result") {
		t.Fatalf("expected navigation to quiz result, got %q", out)
	}
	if len(ts.requests) != 1 {
		t.Fatalf("expected one search request, got %d", len(ts.requests))
	}
}

func TestBrowseCommand_ShortInputStaysIdle(t *testing.T) {
	ts := newTestServer(t, nil)

	out, err := execute(t, ts, "a\n:enter\n", "browse", "--debounce", "1ms")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "[idle]") || !strings.Contains(out, "nothing highlighted") {
		t.Fatalf("unexpected output %q", out)
	}
	if len(ts.requests) != 0 {
		t.Fatal("expected no request for a short query")
	}
}

func TestRenderView_EmptyMessage(t *testing.T) {
	noColor = true
	var buf bytes.Buffer
	renderView(&buf, searchclient.View{State: searchclient.Showing, Open: true, EmptyMessage: `No results found for "zzz"`})
	if !strings.Contains(buf.String(), `No results found for "zzz"`) {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestColorize(t *testing.T) {
	old := noColor
	defer func() { noColor = old }()

	noColor = true
	if got := colorize(colorRed, "x"); got != "x" {
		t.Fatalf("expected plain text, got %q", got)
	}
	noColor = false
	if got := colorize(colorRed, "x"); !strings.Contains(got, "\033[") {
		t.Fatalf("expected ANSI codes, got %q", got)
	}
}

func TestWaitSettled_TimesOut(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	ctrl := searchclient.NewController(searchclient.Options{
		Fetcher: searchclient.FetcherFunc(func(ctx context.Context, q string) (searchclient.ResultSet, error) {
			<-block
			return searchclient.ResultSet{}, nil
		}),
		Debounce: time.Millisecond,
	})
	ctrl.Input("slow query")

	if err := waitSettled(context.Background(), ctrl, 30*time.Millisecond); err == nil {
		t.Fatal("expected timeout while fetch is blocked")
	}
}
