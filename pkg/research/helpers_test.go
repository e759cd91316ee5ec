package research

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/mikeboe/deepresearch/pkg/search"
)

// fakeModel routes every generation call through a single respond
// function keyed on the prompt text.
type fakeModel struct {
	respond func(prompt string) (string, error)
}

func (m *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	out, err := m.respond(promptText(messages))
	if err != nil {
		return nil, err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: out}},
	}, nil
}

func (m *fakeModel) Call(_ context.Context, prompt string, _ ...llms.CallOption) (string, error) {
	return m.respond(prompt)
}

func promptText(messages []llms.MessageContent) string {
	var sb strings.Builder
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				sb.WriteString(text.Text)
			}
		}
	}
	return sb.String()
}

// scriptedModel answers the planner with five candidate queries, the
// analyzer with fixed learnings plus the given follow-ups, and the
// report prompt with reportBody (raw, so an invalid value exercises the
// fallback path).
func scriptedModel(followUps []string, reportBody string) *fakeModel {
	followUpsJSON := `[]`
	if len(followUps) > 0 {
		quoted := make([]string, len(followUps))
		for i, q := range followUps {
			quoted[i] = fmt.Sprintf("%q", q)
		}
		followUpsJSON = "[" + strings.Join(quoted, ",") + "]"
	}

	return &fakeModel{respond: func(prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "search engine queries"):
			return `{"queries":[
				{"query":"q1","research_goal":"g1"},
				{"query":"q2","research_goal":"g2"},
				{"query":"q3","research_goal":"g3"},
				{"query":"q4","research_goal":"g4"},
				{"query":"q5","research_goal":"g5"}]}`, nil
		case strings.Contains(prompt, "Analyze these search results"):
			return fmt.Sprintf(`{"analysis":"summary","learnings":["L1","L2"],"follow_up_questions":%s}`, followUpsJSON), nil
		case strings.Contains(prompt, "write a final report"):
			return reportBody, nil
		default:
			return "", fmt.Errorf("unexpected prompt: %s", prompt)
		}
	}}
}

// fakeProvider records queries and answers them from a docs function.
type fakeProvider struct {
	mu    sync.Mutex
	calls []string
	docs  func(query string) []search.Document
	err   error
}

func (p *fakeProvider) Search(_ context.Context, query string, _ int) ([]search.Document, error) {
	p.mu.Lock()
	p.calls = append(p.calls, query)
	p.mu.Unlock()

	if p.err != nil {
		return nil, p.err
	}
	if p.docs == nil {
		return nil, nil
	}
	return p.docs(query), nil
}

func (p *fakeProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

// docsFor is the standard provider behavior in engine tests: one document
// per query with a stable URL derived from the query text.
func docsFor(query string) []search.Document {
	return []search.Document{{
		URL:     "https://example.com/" + query,
		Title:   "Result for " + query,
		Content: "Content about " + query,
	}}
}

func newTestEngine(t *testing.T, model llms.Model, provider search.Provider) *Engine {
	t.Helper()
	engine, err := NewEngine(model, provider)
	require.NoError(t, err)
	engine.MinSearchInterval = 0
	engine.SearchRetryDelay = 0
	return engine
}
