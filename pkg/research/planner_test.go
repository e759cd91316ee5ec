package research

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func plannerWith(respond func(prompt string) (string, error)) *QueryPlanner {
	return &QueryPlanner{
		Model:       &fakeModel{respond: respond},
		Logger:      slog.Default(),
		Temperature: defaultPlanTemperature,
	}
}

func TestPlanCapsAtRequestedCount(t *testing.T) {
	p := plannerWith(func(string) (string, error) {
		return `{"queries":[
			{"query":"a","research_goal":"ga"},
			{"query":"b","research_goal":"gb"},
			{"query":"c","research_goal":"gc"},
			{"query":"d","research_goal":"gd"}]}`, nil
	})

	queries := p.Plan(context.Background(), "topic", 2, nil)
	assert.Equal(t, []SearchQuery{
		{Query: "a", ResearchGoal: "ga"},
		{Query: "b", ResearchGoal: "gb"},
	}, queries)
}

func TestPlanSkipsBlankQueries(t *testing.T) {
	p := plannerWith(func(string) (string, error) {
		return `{"queries":[
			{"query":"  ","research_goal":"blank"},
			{"query":"real","research_goal":"g"}]}`, nil
	})

	queries := p.Plan(context.Background(), "topic", 3, nil)
	assert.Equal(t, []SearchQuery{{Query: "real", ResearchGoal: "g"}}, queries)
}

func TestPlanFallsBackWhenNoUsableQueries(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"empty array", `{"queries":[]}`},
		{"only blank queries", `{"queries":[{"query":"","research_goal":"g"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := plannerWith(func(string) (string, error) { return tt.response, nil })

			queries := p.Plan(context.Background(), "quantum computing", 3, nil)
			assert.Equal(t, []SearchQuery{{Query: "quantum computing", ResearchGoal: fallbackResearchGoal}}, queries)
		})
	}
}

func TestPlanFallsBackWhenModelFails(t *testing.T) {
	p := plannerWith(func(string) (string, error) {
		return "", fmt.Errorf("model unavailable")
	})

	queries := p.Plan(context.Background(), "quantum computing", 3, nil)
	assert.Equal(t, []SearchQuery{{Query: "quantum computing", ResearchGoal: fallbackResearchGoal}}, queries)
}

func TestPlanPromptCarriesPriorLearnings(t *testing.T) {
	var prompt string
	p := plannerWith(func(got string) (string, error) {
		prompt = got
		return `{"queries":[{"query":"a","research_goal":"g"}]}`, nil
	})

	p.Plan(context.Background(), "topic", 1, []string{"learning one", "learning two"})
	assert.True(t, strings.Contains(prompt, "learning one"))
	assert.True(t, strings.Contains(prompt, "learning two"))
}
