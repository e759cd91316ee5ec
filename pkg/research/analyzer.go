package research

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/mikeboe/deepresearch/pkg/llmutil"
	"github.com/mikeboe/deepresearch/pkg/search"
)

const (
	// Per-document character budget before submission to the model.
	contentCharBudget = 25000

	maxLearningsPerQuery   = 5
	maxFollowUpsPerQuery   = 3
	analysisTemperature    = 0.3
	noResultsSummary       = "No search results found to analyze."
	processingErrorSummary = "Error processing search results."
)

// ContentAnalyzer extracts learnings and follow-up questions from one
// query's search results.
type ContentAnalyzer struct {
	Model  llms.Model
	Logger *slog.Logger
}

// Analyze never fails: empty input short-circuits without a model call,
// and malformed model output degrades to an empty analysis.
func (a *ContentAnalyzer) Analyze(ctx context.Context, query string, docs []search.Document) Analysis {
	contents := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc.Content == "" {
			continue
		}
		contents = append(contents, trimContent(doc.Content, contentCharBudget))
	}

	if len(contents) == 0 {
		return Analysis{Summary: noResultsSummary}
	}

	prompt := buildAnalysisPrompt(query, contents)

	content, err := llmutil.GenerateWithRetry(ctx, a.Model, a.Logger,
		[]llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeSystem, analystSystemPrompt),
			llms.TextParts(llms.ChatMessageTypeHuman, prompt),
		},
		nil,
		llms.WithJSONMode(),
		llms.WithTemperature(analysisTemperature),
	)
	if err != nil {
		a.Logger.Warn("Content analysis failed", "query", query, "error", err)
		return Analysis{Summary: processingErrorSummary}
	}

	analysis, ok := llmutil.DecodeJSON[Analysis](content)
	if !ok {
		a.Logger.Warn("Content analysis returned malformed JSON", "query", query)
		return Analysis{Summary: processingErrorSummary}
	}

	if len(analysis.Learnings) > maxLearningsPerQuery {
		analysis.Learnings = analysis.Learnings[:maxLearningsPerQuery]
	}
	if len(analysis.FollowUpQuestions) > maxFollowUpsPerQuery {
		analysis.FollowUpQuestions = analysis.FollowUpQuestions[:maxFollowUpsPerQuery]
	}
	if analysis.Summary == "" {
		analysis.Summary = "No analysis provided."
	}
	return analysis
}

func buildAnalysisPrompt(query string, contents []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Analyze these search results for the query: <query>%s</query>\n\n<contents>", query)
	for _, content := range contents {
		fmt.Fprintf(&sb, "<content>\n%s\n</content>", content)
	}
	sb.WriteString("</contents>\n\n")
	sb.WriteString(`Provide a detailed analysis including key findings, main themes, and recommendations for further research.
Return as JSON with 'analysis', 'learnings', and 'follow_up_questions' fields.`)
	sb.WriteString(analyzeResultsFormat)
	return sb.String()
}

// trimContent truncates to a prefix of at most budget characters,
// rune-safe so multi-byte text never ends up with an invalid tail.
func trimContent(content string, budget int) string {
	runes := []rune(content)
	if len(runes) <= budget {
		return content
	}
	return string(runes[:budget])
}
