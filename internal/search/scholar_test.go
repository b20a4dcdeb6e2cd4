package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonathan/researchscope/internal/fetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScholarSearcher_QueryURL_Escapes(t *testing.T) {
	s := NewScholarSearcher(ScholarOptions{})
	got := s.QueryURL("LiDAR & path planning?")
	assert.Equal(t, "https://scholar.google.com/scholar?q=LiDAR+%26+path+planning%3F", got)
}

func TestScholarSearcher_Search(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(scholarPage(
			scholarItem("Federated learning for EHR", "Privacy-preserving training.", "https://example.org/ehr"),
		)))
	}))
	defer server.Close()

	s := NewScholarSearcher(ScholarOptions{BaseURL: server.URL})
	results, err := s.Search(context.Background(), "  federated learning & EHR  ")
	require.NoError(t, err)

	assert.Equal(t, "federated learning & EHR", gotQuery)
	require.Len(t, results, 1)
	assert.Equal(t, "Federated learning for EHR", results[0].Title)
}

func TestScholarSearcher_EmptyQuery(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	s := NewScholarSearcher(ScholarOptions{BaseURL: server.URL})
	_, err := s.Search(context.Background(), "   ")
	require.Error(t, err)

	var searchErr *Error
	require.ErrorAs(t, err, &searchErr)
	assert.Equal(t, "empty query", searchErr.Message)
	assert.False(t, called, "no request should be issued for an empty query")
}

func TestScholarSearcher_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	s := NewScholarSearcher(ScholarOptions{BaseURL: server.URL})
	_, err := s.Search(context.Background(), "smart grid")
	require.Error(t, err)

	var searchErr *Error
	require.ErrorAs(t, err, &searchErr)
	var fetchErr *fetch.Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, fetchErr.Message, "429")
}

func TestScholarSearcher_NoResultsIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>nothing here</body></html>`))
	}))
	defer server.Close()

	s := NewScholarSearcher(ScholarOptions{BaseURL: server.URL})
	results, err := s.Search(context.Background(), "smart grid")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestScholarSearcher_BrowserFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><noscript>enable js</noscript></body></html>`))
	}))
	defer server.Close()

	var rendered string
	s := NewScholarSearcher(ScholarOptions{
		BaseURL:         server.URL,
		BrowserFallback: true,
		Renderer: func(ctx context.Context, url string) (string, error) {
			rendered = url
			return scholarPage(scholarItem("Rendered", "From the browser", "")), nil
		},
	})

	results, err := s.Search(context.Background(), "occupancy")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Rendered", results[0].Title)
	assert.Equal(t, server.URL+"?q=occupancy", rendered)
}

func TestScholarSearcher_UseBrowser(t *testing.T) {
	s := NewScholarSearcher(ScholarOptions{
		UseBrowser: true,
		Renderer: func(ctx context.Context, url string) (string, error) {
			return "", errors.New("chrome not found")
		},
	})

	_, err := s.Search(context.Background(), "occupancy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "browser rendering failed")
	assert.Contains(t, err.Error(), "chrome not found")
}
