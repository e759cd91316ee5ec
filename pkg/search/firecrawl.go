package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultFirecrawlBaseURL = "https://api.firecrawl.dev"

// Firecrawl queries the Firecrawl search API and scrapes each hit as
// markdown in the same request.
type Firecrawl struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

func NewFirecrawl(apiKey string) *Firecrawl {
	return &Firecrawl{
		APIKey:  apiKey,
		BaseURL: defaultFirecrawlBaseURL,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type firecrawlRequest struct {
	Query         string                 `json:"query"`
	Limit         int                    `json:"limit,omitempty"`
	ScrapeOptions map[string]interface{} `json:"scrapeOptions,omitempty"`
}

type firecrawlResult struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Markdown    string `json:"markdown"`
}

type firecrawlResponse struct {
	Success bool              `json:"success"`
	Data    []firecrawlResult `json:"data"`
}

func (f *Firecrawl) Search(ctx context.Context, query string, limit int) ([]Document, error) {
	if f.APIKey == "" {
		return nil, fmt.Errorf("FIRECRAWL_API_KEY is not set")
	}

	reqBody := firecrawlRequest{
		Query: query,
		Limit: limit,
		ScrapeOptions: map[string]interface{}{
			"formats": []string{"markdown"},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.BaseURL+"/v1/search", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.APIKey)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make API request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status: %s, body: %s", resp.Status, string(body))
	}

	var fcResp firecrawlResponse
	if err := json.Unmarshal(body, &fcResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal search response: %w", err)
	}

	docs := make([]Document, 0, len(fcResp.Data))
	for _, r := range fcResp.Data {
		if r.URL == "" {
			continue
		}
		content := r.Markdown
		if content == "" {
			content = r.Description
		}
		docs = append(docs, Document{
			URL:     r.URL,
			Title:   r.Title,
			Content: content,
		})
	}
	return docs, nil
}
