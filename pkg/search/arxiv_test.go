package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const arxivFeedFixture = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2401.00001v1</id>
    <title> Test Paper One </title>
    <summary> First abstract. </summary>
    <link href="http://arxiv.org/abs/2401.00001v1" type="text/html"/>
    <link href="http://arxiv.org/pdf/2401.00001v1" type="application/pdf"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2401.00002v1</id>
    <title>Test Paper Two</title>
    <summary>Second abstract.</summary>
    <link href="http://arxiv.org/abs/2401.00002v1" type="text/html"/>
  </entry>
</feed>`

func TestArxivSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "large language models", r.URL.Query().Get("search_query"))
		assert.Equal(t, "2", r.URL.Query().Get("max_results"))
		w.Write([]byte(arxivFeedFixture))
	}))
	defer srv.Close()

	a := NewArxiv()
	a.BaseURL = srv.URL + "/?"

	docs, err := a.Search(context.Background(), "large language models", 2)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	// The PDF link wins over the abstract page when present.
	assert.Equal(t, "http://arxiv.org/pdf/2401.00001v1", docs[0].URL)
	assert.Equal(t, "Test Paper One", docs[0].Title)
	assert.Equal(t, "First abstract.", docs[0].Content)

	assert.Equal(t, "http://arxiv.org/abs/2401.00002v1", docs[1].URL)
}

func TestArxivSearchDefaultsLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("max_results"))
		w.Write([]byte(arxivFeedFixture))
	}))
	defer srv.Close()

	a := NewArxiv()
	a.BaseURL = srv.URL + "/?"

	_, err := a.Search(context.Background(), "query", 0)
	require.NoError(t, err)
}

func TestArxivSearchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	a := NewArxiv()
	a.BaseURL = srv.URL + "/?"

	_, err := a.Search(context.Background(), "query", 5)
	assert.Error(t, err)
}
