package search

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const arxivAPIBase = "https://export.arxiv.org/api/query?"

// Arxiv searches the arXiv Atom API. Useful for academic topics where
// paper abstracts make better analysis input than general web pages.
type Arxiv struct {
	BaseURL string
	Client  *http.Client
}

func NewArxiv() *Arxiv {
	return &Arxiv{
		BaseURL: arxivAPIBase,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type arxivEntry struct {
	ID      string      `xml:"id"`
	Title   string      `xml:"title"`
	Summary string      `xml:"summary"`
	Link    []arxivLink `xml:"link"`
}

type arxivLink struct {
	Href string `xml:"href,attr"`
	Type string `xml:"type,attr"`
}

type arxivFeed struct {
	XMLName xml.Name     `xml:"feed"`
	Entry   []arxivEntry `xml:"entry"`
}

func (a *Arxiv) Search(ctx context.Context, query string, limit int) ([]Document, error) {
	if limit <= 0 {
		limit = 5
	}

	params := url.Values{}
	params.Add("search_query", query)
	params.Add("max_results", strconv.Itoa(limit))
	params.Add("start", "0")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.BaseURL+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API returned non-200 status code: %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var feed arxivFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal XML: %w", err)
	}

	docs := make([]Document, 0, len(feed.Entry))
	for _, entry := range feed.Entry {
		doc := Document{
			URL:     entry.ID,
			Title:   strings.TrimSpace(entry.Title),
			Content: strings.TrimSpace(entry.Summary),
		}
		// Prefer the PDF link when the feed carries one.
		for _, link := range entry.Link {
			if link.Type == "application/pdf" {
				doc.URL = link.Href
				break
			}
		}
		if doc.URL == "" {
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
