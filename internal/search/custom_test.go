package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func newTestCustomSearcher(t *testing.T, handler http.HandlerFunc) *CustomSearcher {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	s, err := NewCustomSearcher(context.Background(), "test-key", "test-cx", 3,
		option.WithEndpoint(server.URL+"/"),
		option.WithHTTPClient(server.Client()),
	)
	require.NoError(t, err)
	return s
}

func TestNewCustomSearcher_RequiresCredentials(t *testing.T) {
	_, err := NewCustomSearcher(context.Background(), "", "cx", 5)
	assert.Error(t, err)

	_, err = NewCustomSearcher(context.Background(), "key", "", 5)
	assert.Error(t, err)
}

func TestCustomSearcher_Search(t *testing.T) {
	var gotQuery, gotCx, gotNum string
	s := newTestCustomSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotCx = r.URL.Query().Get("cx")
		gotNum = r.URL.Query().Get("num")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items": [
			{"title": "Smart meters", "snippet": "Load  profiles.", "link": "https://example.org/1"},
			{"title": "", "snippet": "no title", "link": "https://example.org/2"}
		]}`))
	})

	results, err := s.Search(context.Background(), "smart meters")
	require.NoError(t, err)

	assert.Equal(t, "smart meters", gotQuery)
	assert.Equal(t, "test-cx", gotCx)
	assert.Equal(t, "3", gotNum)
	require.Len(t, results, 1)
	assert.Equal(t, Result{Title: "Smart meters", Snippet: "Load profiles.", URL: "https://example.org/1"}, results[0])
}

func TestCustomSearcher_APIError(t *testing.T) {
	s := newTestCustomSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": {"code": 403, "message": "quota exceeded"}}`))
	})

	_, err := s.Search(context.Background(), "smart meters")
	require.Error(t, err)

	var searchErr *Error
	require.ErrorAs(t, err, &searchErr)
	assert.Equal(t, "smart meters", searchErr.Query)
}

func TestCustomSearcher_EmptyQuery(t *testing.T) {
	s := newTestCustomSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := s.Search(context.Background(), "")
	assert.Error(t, err)
}
