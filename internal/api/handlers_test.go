package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmalens/pricelens/internal/aggregator"
	"github.com/pharmalens/pricelens/internal/api"
	"github.com/pharmalens/pricelens/internal/domain"
	"github.com/pharmalens/pricelens/internal/logger"
	"github.com/pharmalens/pricelens/internal/query"
)

// fakeSearcher returns scripted results.
type fakeSearcher struct {
	result *domain.AggregateResult
	events []domain.ProgressEvent
	err    error
}

func (f *fakeSearcher) Search(_ context.Context, _, _ string) (*domain.AggregateResult, error) {
	return f.result, f.err
}

func (f *fakeSearcher) SearchStream(_ context.Context, _, _ string) (<-chan domain.ProgressEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	ch := make(chan domain.ProgressEvent, len(f.events))
	for _, ev := range f.events {
		ch <- ev
	}
	close(ch)
	return ch, nil
}

func (f *fakeSearcher) SearchMany(_ context.Context, reqs []aggregator.Request) (*domain.BatchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.BatchResult{Results: []domain.AggregateResult{}}, nil
}

func testDescriptors() []domain.SourceDescriptor {
	return []domain.SourceDescriptor{
		{ID: "pharmeasy", DisplayName: "PharmEasy", Strategy: domain.StrategyEmbeddedJSON},
	}
}

func newRouter(searcher api.Searcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := api.NewHandler(searcher, testDescriptors, logger.NewNoop())

	router := gin.New()
	router.GET("/healthz", handler.Health)
	router.GET("/api/v1/search", handler.Search)
	router.GET("/api/v1/search/stream", handler.SearchStream)
	router.POST("/api/v1/search/batch", handler.SearchBatch)
	router.GET("/api/v1/sources", handler.Sources)
	return router
}

func TestHealth(t *testing.T) {
	t.Parallel()

	router := newRouter(&fakeSearcher{})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestSearch_ReturnsResult(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{result: &domain.AggregateResult{
		Query:   domain.SearchQuery{CanonicalQuery: "Dolo 650mg"},
		Records: []domain.PriceRecord{{SourceID: "pharmeasy", Price: 30.91}},
		Savings: 0,
		Errors:  map[string]string{},
	}}

	router := newRouter(searcher)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/search?name=Dolo+650mg", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var result domain.AggregateResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "Dolo 650mg", result.Query.CanonicalQuery)
	assert.Len(t, result.Records, 1)
}

func TestSearch_MissingNameIsBadRequest(t *testing.T) {
	t.Parallel()

	router := newRouter(&fakeSearcher{})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/search", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearch_EmptyQueryIsBadRequest(t *testing.T) {
	t.Parallel()

	router := newRouter(&fakeSearcher{err: query.ErrEmptyQuery})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/search?name=%21%21", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchStream_EmitsSSE(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{events: []domain.ProgressEvent{
		{Type: domain.EventStarted, Sources: []string{"pharmeasy"}},
		{Type: domain.EventSourceResult, SourceID: "pharmeasy", Completed: 1},
		{Type: domain.EventComplete, Result: &domain.AggregateResult{Records: []domain.PriceRecord{}}},
	}}

	router := newRouter(searcher)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/search/stream?name=Dolo", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/event-stream")

	body := w.Body.String()
	assert.Contains(t, body, "event:started")
	assert.Contains(t, body, "event:source_result")
	assert.Contains(t, body, "event:complete")
}

func TestSearchBatch_Validation(t *testing.T) {
	t.Parallel()

	router := newRouter(&fakeSearcher{})

	cases := []struct {
		name string
		body string
		want int
	}{
		{"valid", `{"medicines":[{"name":"Dolo 650mg"}]}`, http.StatusOK},
		{"empty list", `{"medicines":[]}`, http.StatusBadRequest},
		{"missing field", `{}`, http.StatusBadRequest},
		{"malformed", `{`, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/search/batch", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestSources_ListsDescriptors(t *testing.T) {
	t.Parallel()

	router := newRouter(&fakeSearcher{})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sources", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pharmeasy")
	assert.Contains(t, w.Body.String(), "embedded_json")
}
