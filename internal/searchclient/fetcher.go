package searchclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const searchPath = "/api/v1/search"

// ErrSearchFailed wraps any non-2xx answer from the search endpoint.
var ErrSearchFailed = errors.New("search request failed")

// HTTPFetcher calls GET /api/v1/search with a bearer token.
type HTTPFetcher struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewHTTPFetcher(baseURL, token string, httpClient *http.Client) *HTTPFetcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPFetcher{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Fetch returns the grouped results for query.
func (f *HTTPFetcher) Fetch(ctx context.Context, query string) (ResultSet, error) {
	endpoint := f.baseURL + searchPath + "?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ResultSet{}, err
	}
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return ResultSet{}, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return ResultSet{}, fmt.Errorf("%w: status %d: decode body: %v", ErrSearchFailed, resp.StatusCode, err)
	}
	if resp.StatusCode >= 400 || !env.Success {
		return ResultSet{}, fmt.Errorf("%w: status %d: %s", ErrSearchFailed, resp.StatusCode, env.Message)
	}

	var data ResultSet
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return ResultSet{}, fmt.Errorf("%w: decode data: %v", ErrSearchFailed, err)
	}
	return data, nil
}

// CachedSearch consults Cache before delegating to Fetcher and stores
// successful results. It serves one-shot callers; the Controller does its
// own cache handling. The bool result reports a cache hit.
type CachedSearch struct {
	Cache   *Cache
	Fetcher Fetcher
}

func (s CachedSearch) Search(ctx context.Context, query string) (ResultSet, bool, error) {
	if data, ok := s.Cache.Lookup(query); ok {
		return data, true, nil
	}
	data, err := s.Fetcher.Fetch(ctx, query)
	if err != nil {
		return ResultSet{}, false, err
	}
	s.Cache.Store(query, data)
	return data, false, nil
}
