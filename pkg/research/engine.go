// Package research implements recursive multi-level web research: plan
// search queries for a topic, run them against a search provider, extract
// learnings with an LLM, explore follow-up questions to a bounded depth,
// and synthesize a report from the merged findings.
package research

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/mikeboe/deepresearch/pkg/llmutil"
	"github.com/mikeboe/deepresearch/pkg/search"
)

const (
	// DefaultMinSearchInterval is the spacing enforced between any two
	// search-backend calls within one run.
	DefaultMinSearchInterval = 3 * time.Second

	defaultSearchTimeout    = 20 * time.Second
	defaultSearchLimit      = 5
	searchAttempts          = 3
	defaultSearchRetryDelay = 2 * time.Second

	// Follow-up questions surviving to the caller are capped here, at the
	// run boundary only; intermediate merges keep all of them.
	maxReportedFollowUps = 10
)

// Engine runs deep research against a search provider and an LLM. The
// zero fields set by NewEngine are tunable before the first Run; Logger
// may be swapped out per job the way the server does for log capture.
type Engine struct {
	Model  llms.Model
	Search search.Provider
	Logger *slog.Logger

	MinSearchInterval time.Duration
	SearchTimeout     time.Duration
	SearchRetryDelay  time.Duration
	SearchLimit       int
}

func NewEngine(model llms.Model, provider search.Provider) (*Engine, error) {
	if model == nil {
		return nil, errors.New("research: an LLM model is required")
	}
	if provider == nil {
		return nil, errors.New("research: a search provider is required")
	}
	return &Engine{
		Model:             model,
		Search:            provider,
		Logger:            slog.Default(),
		MinSearchInterval: DefaultMinSearchInterval,
		SearchTimeout:     defaultSearchTimeout,
		SearchRetryDelay:  defaultSearchRetryDelay,
		SearchLimit:       defaultSearchLimit,
	}, nil
}

// Run executes one full research tree for the topic and, unless the
// config asks for raw data only, synthesizes the final report. Transient
// failures inside the tree degrade branches to empty results; Run itself
// fails only on unusable input.
func (e *Engine) Run(ctx context.Context, topic string, cfg Config) (*Output, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, errors.New("research: topic must not be empty")
	}
	cfg = cfg.Clamped()

	e.Logger.Info("Starting research",
		"topic", topic, "breadth", cfg.Breadth, "depth", cfg.Depth, "concurrency", cfg.Concurrency)

	s := &session{
		engine:   e,
		cfg:      cfg,
		gate:     semaphore.NewWeighted(int64(cfg.Concurrency)),
		pace:     newSearchPacer(e.MinSearchInterval),
		planner:  &QueryPlanner{Model: e.Model, Logger: e.Logger, Temperature: cfg.Temperature},
		analyzer: &ContentAnalyzer{Model: e.Model, Logger: e.Logger},
	}

	data := s.research(ctx, topic, cfg.Breadth, cfg.Depth, nil, nil)
	if len(data.FollowUpQuestions) > maxReportedFollowUps {
		data.FollowUpQuestions = data.FollowUpQuestions[:maxReportedFollowUps]
	}

	e.Logger.Info("Research complete",
		"topic", topic, "learnings", len(data.Learnings), "urls", len(data.VisitedURLs))

	if cfg.RawDataOnly {
		return &Output{Data: data}, nil
	}

	synthesizer := &ReportSynthesizer{Model: e.Model, Logger: e.Logger}
	report := synthesizer.Synthesize(ctx, topic, data)
	return &Output{Report: &report, Data: data}, nil
}

// ClarifyingQuestions generates questions that would sharpen the topic
// before a run, for interactive callers. Unparseable model output yields
// an empty slice, not an error.
func (e *Engine) ClarifyingQuestions(ctx context.Context, topic string) ([]string, error) {
	prompt := fmt.Sprintf(`Given this research topic: %s, generate 3-5 follow-up questions to better understand the research needs.
Return ONLY a JSON array of strings containing the questions.`, topic)

	resp, err := e.Model.GenerateContent(ctx,
		[]llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeSystem, analystSystemPrompt),
			llms.TextParts(llms.ChatMessageTypeHuman, prompt),
		},
		llms.WithJSONMode(),
		llms.WithTemperature(defaultPlanTemperature),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate clarifying questions: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, nil
	}

	questions, ok := llmutil.DecodeJSON[[]string](resp.Choices[0].Content)
	if !ok {
		e.Logger.Warn("Clarifying questions were not valid JSON", "topic", topic)
		return nil, nil
	}
	return questions, nil
}

// session carries the per-run shared state: one concurrency gate and one
// search pacer for the entire recursion, per-run planner/analyzer bound
// to the engine's logger.
type session struct {
	engine   *Engine
	cfg      Config
	gate     *semaphore.Weighted
	pace     *searchPacer
	planner  *QueryPlanner
	analyzer *ContentAnalyzer
}

// research is one recursion level: plan up to breadth queries for the
// topic, process them concurrently, and merge whatever the branches
// produced.
func (s *session) research(ctx context.Context, topic string, breadth, depth int, priorLearnings, priorURLs []string) Result {
	queries := s.planner.Plan(ctx, topic, breadth, priorLearnings)

	results := make([]Result, len(queries))
	var g errgroup.Group
	for i, q := range queries {
		g.Go(func() error {
			results[i] = s.processQuery(ctx, q, breadth, depth, priorLearnings, priorURLs)
			return nil
		})
	}
	_ = g.Wait()

	return merge(results...)
}

// processQuery is the per-query node: search, analyze, and conditionally
// expand into a deeper research level. It never returns an error; any
// failure degrades this branch to an empty result so siblings keep going.
func (s *session) processQuery(ctx context.Context, query SearchQuery, breadth, depth int, priorLearnings, priorURLs []string) Result {
	if err := s.gate.Acquire(ctx, 1); err != nil {
		return Result{}
	}

	docs := s.searchWithRetry(ctx, query.Query)
	if len(docs) == 0 {
		s.gate.Release(1)
		s.engine.Logger.Info("No search results, branch ends here", "query", query.Query)
		return Result{}
	}

	urls := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc.URL != "" {
			urls = append(urls, doc.URL)
		}
	}

	analysis := s.analyzer.Analyze(ctx, query.Query, docs)

	// The slot covers this node's own search and analysis only. Children
	// acquire their own slots; holding across the recursive wait would
	// let ancestors starve the pool into deadlock.
	s.gate.Release(1)

	own := Result{
		Learnings:         analysis.Learnings,
		VisitedURLs:       urls,
		FollowUpQuestions: analysis.FollowUpQuestions,
		Analyses:          []QueryAnalysis{{Query: query.Query, Analysis: analysis.Summary}},
	}

	childBreadth := max(1, breadth/2)
	childDepth := depth - 1

	// Depth budget outranks open questions.
	if childDepth <= 0 || len(analysis.FollowUpQuestions) == 0 {
		return own
	}

	followUps := analysis.FollowUpQuestions
	if len(followUps) > childBreadth {
		followUps = followUps[:childBreadth]
	}

	// The questions handed down become the child level's research topic;
	// they are no longer open at this node.
	own.FollowUpQuestions = nil

	childLearnings := append(append([]string{}, priorLearnings...), analysis.Learnings...)
	childURLs := append(append([]string{}, priorURLs...), urls...)

	child := s.research(ctx, followUpTopic(query.ResearchGoal, followUps), childBreadth, childDepth, childLearnings, childURLs)
	return merge(own, child)
}

// searchWithRetry paces and runs the search call with a bounded retry
// budget and a per-attempt timeout. Exhausting the budget degrades to nil
// rather than surfacing an error.
func (s *session) searchWithRetry(ctx context.Context, query string) []search.Document {
	for attempt := 1; attempt <= searchAttempts; attempt++ {
		if err := s.pace.Wait(ctx); err != nil {
			return nil
		}

		searchCtx, cancel := context.WithTimeout(ctx, s.engine.SearchTimeout)
		docs, err := s.engine.Search.Search(searchCtx, query, s.engine.SearchLimit)
		cancel()

		if err == nil {
			return docs
		}

		s.engine.Logger.Warn("Search attempt failed", "query", query, "attempt", attempt, "error", err)
		if attempt < searchAttempts {
			select {
			case <-time.After(s.engine.SearchRetryDelay):
			case <-ctx.Done():
				return nil
			}
		}
	}

	s.engine.Logger.Error("Search failed after retries, degrading branch", "query", query)
	return nil
}

func followUpTopic(researchGoal string, followUps []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Previous research goal: %s\n", researchGoal)
	sb.WriteString("Follow-up questions to explore:\n")
	for _, q := range followUps {
		fmt.Fprintf(&sb, "- %s\n", q)
	}
	return sb.String()
}
