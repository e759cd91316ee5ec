package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirecrawlSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/search", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req firecrawlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "golang concurrency", req.Query)
		assert.Equal(t, 3, req.Limit)

		json.NewEncoder(w).Encode(firecrawlResponse{
			Success: true,
			Data: []firecrawlResult{
				{URL: "https://a.example", Title: "A", Markdown: "# A body"},
				{URL: "https://b.example", Title: "B", Description: "summary only"},
				{Title: "no url, dropped"},
			},
		})
	}))
	defer srv.Close()

	f := NewFirecrawl("test-key")
	f.BaseURL = srv.URL

	docs, err := f.Search(context.Background(), "golang concurrency", 3)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, Document{URL: "https://a.example", Title: "A", Content: "# A body"}, docs[0])
	// Description stands in when no markdown was scraped.
	assert.Equal(t, Document{URL: "https://b.example", Title: "B", Content: "summary only"}, docs[1])
}

func TestFirecrawlSearchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := NewFirecrawl("test-key")
	f.BaseURL = srv.URL

	_, err := f.Search(context.Background(), "query", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestFirecrawlSearchRequiresAPIKey(t *testing.T) {
	f := NewFirecrawl("")

	_, err := f.Search(context.Background(), "query", 5)
	assert.Error(t, err)
}
