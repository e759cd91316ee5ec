package search

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProvider struct {
	calls int
	err   error
}

func (p *countingProvider) Search(_ context.Context, query string, limit int) ([]Document, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return []Document{{URL: fmt.Sprintf("https://example.com/%s/%d", query, limit)}}, nil
}

func TestCachedSearchHitsUpstreamOnce(t *testing.T) {
	inner := &countingProvider{}
	c := NewCached(inner, time.Minute)

	first, err := c.Search(context.Background(), "query", 5)
	require.NoError(t, err)

	second, err := c.Search(context.Background(), "query", 5)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, first, second)
}

func TestCachedSearchKeyIncludesLimit(t *testing.T) {
	inner := &countingProvider{}
	c := NewCached(inner, time.Minute)

	_, err := c.Search(context.Background(), "query", 5)
	require.NoError(t, err)

	_, err = c.Search(context.Background(), "query", 10)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedSearchDoesNotCacheFailures(t *testing.T) {
	inner := &countingProvider{err: fmt.Errorf("upstream down")}
	c := NewCached(inner, time.Minute)

	_, err := c.Search(context.Background(), "query", 5)
	require.Error(t, err)

	inner.err = nil
	docs, err := c.Search(context.Background(), "query", 5)
	require.NoError(t, err)
	assert.NotEmpty(t, docs)
	assert.Equal(t, 2, inner.calls)
}
