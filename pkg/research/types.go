package research

// SearchQuery is a single planned query with the rationale for running it.
type SearchQuery struct {
	Query        string `json:"query"`
	ResearchGoal string `json:"research_goal"`
}

// Analysis is what the LLM extracts from one query's search results.
type Analysis struct {
	Summary           string   `json:"analysis"`
	Learnings         []string `json:"learnings"`
	FollowUpQuestions []string `json:"follow_up_questions"`
}

// QueryAnalysis pairs an executed query with its analysis text for the
// final report.
type QueryAnalysis struct {
	Query    string `json:"query"`
	Analysis string `json:"analysis"`
}

// Result accumulates findings across the research tree. Learnings and
// VisitedURLs are deduplicated at every merge, keeping first-insertion
// order; follow-up questions are deliberately kept as-is because the same
// question surfacing in several branches is a signal, not noise.
type Result struct {
	Learnings         []string        `json:"learnings"`
	VisitedURLs       []string        `json:"visited_urls"`
	FollowUpQuestions []string        `json:"follow_up_questions"`
	Analyses          []QueryAnalysis `json:"analyses"`
}

// Output is what Run hands back to the caller. Report is nil when the
// caller asked for raw data only.
type Output struct {
	Report *string `json:"report,omitempty"`
	Data   Result  `json:"data"`
}

// Config controls the shape of one research run. Out-of-range values are
// clamped at the entry point rather than rejected.
type Config struct {
	Breadth     int     `json:"breadth"`
	Depth       int     `json:"depth"`
	Concurrency int     `json:"concurrency"`
	Temperature float64 `json:"temperature"`
	RawDataOnly bool    `json:"raw_data_only"`
}

const (
	DefaultBreadth     = 3
	DefaultDepth       = 2
	DefaultConcurrency = 2

	minBreadth = 1
	maxBreadth = 5
	minDepth   = 1
	maxDepth   = 3
)

// Clamped fills in defaults for zero values and forces every knob into
// its supported range.
func (c Config) Clamped() Config {
	if c.Breadth == 0 {
		c.Breadth = DefaultBreadth
	}
	if c.Depth == 0 {
		c.Depth = DefaultDepth
	}
	if c.Concurrency == 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.Temperature == 0 {
		c.Temperature = defaultPlanTemperature
	}

	c.Breadth = clamp(c.Breadth, minBreadth, maxBreadth)
	c.Depth = clamp(c.Depth, minDepth, maxDepth)
	if c.Concurrency < 1 {
		c.Concurrency = 1
	}
	return c
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
