// Package search defines the web-search abstraction used by the research
// engine and the concrete providers behind it. Providers are
// interchangeable; the engine only depends on the Provider interface.
package search

import "context"

// Document is a single search hit with its scraped content.
type Document struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Provider executes a search query and returns up to limit documents.
type Provider interface {
	Search(ctx context.Context, query string, limit int) ([]Document, error)
}
