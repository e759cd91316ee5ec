package research

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/mikeboe/deepresearch/pkg/llmutil"
)

const reportTemperature = 0.3

// ReportSynthesizer turns accumulated findings into a markdown report.
type ReportSynthesizer struct {
	Model  llms.Model
	Logger *slog.Logger
}

// Synthesize asks the model for a structured report and falls back to a
// deterministic bullet list of learnings when the response can't be
// parsed. Either way the Sources section is appended from the visited
// URLs, never left to the model.
func (s *ReportSynthesizer) Synthesize(ctx context.Context, topic string, result Result) string {
	prompt := buildReportPrompt(topic, result)

	type reportEnvelope struct {
		ReportMarkdown string `json:"reportMarkdown"`
	}

	body := ""
	content, err := llmutil.GenerateWithRetry(ctx, s.Model, s.Logger,
		[]llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeSystem, reportSystemPrompt),
			llms.TextParts(llms.ChatMessageTypeHuman, prompt),
		},
		nil,
		llms.WithJSONMode(),
		llms.WithTemperature(reportTemperature),
	)
	if err == nil {
		if envelope, ok := llmutil.DecodeJSON[reportEnvelope](content); ok && envelope.ReportMarkdown != "" {
			body = envelope.ReportMarkdown
		}
	} else {
		s.Logger.Warn("Report generation failed, using fallback report", "topic", topic, "error", err)
	}

	if body == "" {
		body = fallbackReport(topic, result)
	}

	return body + sourcesSection(result.VisitedURLs)
}

func buildReportPrompt(topic string, result Result) string {
	var learnings strings.Builder
	for _, learning := range result.Learnings {
		fmt.Fprintf(&learnings, "- %s\n", learning)
	}

	analysesJSON, err := json.MarshalIndent(result.Analyses, "", "  ")
	if err != nil {
		analysesJSON = []byte("[]")
	}

	return fmt.Sprintf(`Given the following prompt from the user, write a final report on the topic using
the learnings from research. Return a JSON object with a 'reportMarkdown' field
containing a detailed markdown report (aim for 3+ pages). Include ALL the learnings
from research:
<prompt>
%s
</prompt>

Here are all the learnings from research:
<learnings>
%s</learnings>

Here are all the analyses from research:
<analyses>
%s
</analyses>

Create a detailed markdown report that includes:
1. Executive Summary
2. Key Findings and Insights
3. Detailed Analysis by Theme
4. Gaps and Areas for Further Research
5. Recommendations
6. Source Analysis and Credibility Assessment

IMPORTANT: MAKE SURE YOU RETURN THE JSON ONLY, NO OTHER TEXT OR MARKUP AND A VALID JSON.`,
		topic, learnings.String(), string(analysesJSON))
}

// fallbackReport is deterministic: same findings in, same report out.
func fallbackReport(topic string, result Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Research Report: %s\n\n## Key Findings\n\n", topic)
	for _, learning := range result.Learnings {
		fmt.Fprintf(&sb, "- %s\n", learning)
	}
	return sb.String()
}

func sourcesSection(urls []string) string {
	var sb strings.Builder
	sb.WriteString("\n\n## Sources\n\n")
	for _, url := range urls {
		fmt.Fprintf(&sb, "- %s\n", url)
	}
	return sb.String()
}
