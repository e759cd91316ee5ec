package llmutil

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type stubModel struct {
	responses []string
	errs      []error
	calls     int
}

func (m *stubModel) GenerateContent(_ context.Context, _ []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	i := m.calls
	m.calls++
	if i < len(m.errs) && m.errs[i] != nil {
		return nil, m.errs[i]
	}
	content := ""
	if i < len(m.responses) {
		content = m.responses[i]
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: content}}}, nil
}

func (m *stubModel) Call(_ context.Context, _ string, _ ...llms.CallOption) (string, error) {
	return "", nil
}

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}\n", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSON(tt.in))
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	got, ok := DecodeJSON[payload]("```json\n{\"name\":\"x\"}\n```")
	require.True(t, ok)
	assert.Equal(t, payload{Name: "x"}, got)

	_, ok = DecodeJSON[payload]("not json at all")
	assert.False(t, ok)

	list, ok := DecodeJSON[[]string](`["a","b"]`)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, list)
}

func TestGenerateWithRetrySucceedsFirstAttempt(t *testing.T) {
	model := &stubModel{responses: []string{"ok"}}

	content, err := GenerateWithRetry(context.Background(), model, slog.Default(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", content)
	assert.Equal(t, 1, model.calls)
}

func TestGenerateWithRetryRetriesOnValidatorRejection(t *testing.T) {
	model := &stubModel{responses: []string{"bad", "good"}}

	content, err := GenerateWithRetry(context.Background(), model, slog.Default(), nil, func(content string) error {
		if content != "good" {
			return fmt.Errorf("rejected %q", content)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "good", content)
	assert.Equal(t, 2, model.calls)
}

func TestGenerateWithRetryRetriesOnModelError(t *testing.T) {
	model := &stubModel{
		errs:      []error{fmt.Errorf("transient"), nil},
		responses: []string{"", "ok"},
	}

	content, err := GenerateWithRetry(context.Background(), model, slog.Default(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", content)
}

func TestGenerateWithRetryExhaustsBudget(t *testing.T) {
	model := &stubModel{responses: []string{"a", "b", "c", "d"}}

	_, err := GenerateWithRetry(context.Background(), model, slog.Default(), nil, func(string) error {
		return fmt.Errorf("never valid")
	})
	require.Error(t, err)
	assert.Equal(t, maxGenerateRetries, model.calls)
	assert.Contains(t, err.Error(), "never valid")
}

func TestGenerateWithRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	model := &stubModel{errs: []error{fmt.Errorf("transient")}}

	_, err := GenerateWithRetry(ctx, model, slog.Default(), nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
