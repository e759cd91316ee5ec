package research

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/mikeboe/deepresearch/pkg/llmutil"
)

const (
	defaultPlanTemperature = 0.7
	fallbackResearchGoal   = "Main topic research"
)

// QueryPlanner turns a topic plus prior learnings into distinct search
// queries, each with a one-sentence goal.
type QueryPlanner struct {
	Model       llms.Model
	Logger      *slog.Logger
	Temperature float64
}

// Plan generates up to numQueries search queries. It never fails: when the
// model's output can't be parsed into at least one usable query, the topic
// itself becomes the single query.
func (p *QueryPlanner) Plan(ctx context.Context, topic string, numQueries int, priorLearnings []string) []SearchQuery {
	prompt := p.buildPrompt(topic, numQueries, priorLearnings)

	type queriesEnvelope struct {
		Queries []SearchQuery `json:"queries"`
	}

	content, err := llmutil.GenerateWithRetry(ctx, p.Model, p.Logger,
		[]llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeSystem, analystSystemPrompt),
			llms.TextParts(llms.ChatMessageTypeHuman, prompt),
		},
		func(content string) error {
			if _, ok := llmutil.DecodeJSON[queriesEnvelope](content); !ok {
				return fmt.Errorf("response is not valid query JSON")
			}
			return nil
		},
		llms.WithJSONMode(),
		llms.WithTemperature(p.Temperature),
	)
	if err != nil {
		p.Logger.Warn("Query planning failed, falling back to topic query", "topic", topic, "error", err)
		return p.fallback(topic)
	}

	envelope, _ := llmutil.DecodeJSON[queriesEnvelope](content)

	queries := make([]SearchQuery, 0, numQueries)
	for _, q := range envelope.Queries {
		if strings.TrimSpace(q.Query) == "" {
			continue
		}
		queries = append(queries, q)
		if len(queries) == numQueries {
			break
		}
	}
	if len(queries) == 0 {
		return p.fallback(topic)
	}
	return queries
}

func (p *QueryPlanner) fallback(topic string) []SearchQuery {
	return []SearchQuery{{Query: topic, ResearchGoal: fallbackResearchGoal}}
}

func (p *QueryPlanner) buildPrompt(topic string, numQueries int, priorLearnings []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `Given the following prompt from the user, generate a list of search engine queries to research the topic.
Return a JSON object with a 'queries' array containing %d queries (or fewer if the original prompt is already specific).
Each query object has 'query' and 'research_goal' fields, the goal being one sentence.
Make sure each query is unique and not similar to the others.

<prompt>%s</prompt>
`, numQueries, topic)

	if len(priorLearnings) > 0 {
		sb.WriteString("\nPrevious learnings to consider:\n")
		for _, learning := range priorLearnings {
			fmt.Fprintf(&sb, "- %s\n", learning)
		}
	}

	sb.WriteString(planQueriesFormat)
	return sb.String()
}
