package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"

	"github.com/mikeboe/deepresearch/pkg/research"
	"github.com/mikeboe/deepresearch/pkg/search"
)

// Service runs research jobs in the background and answers queries about
// them. One service owns one model client and one search provider, shared
// across jobs.
type Service struct {
	Store    *JobStore
	Model    llms.Model
	Search   search.Provider
	Defaults research.Config
	Logger   *slog.Logger

	// Engine tuning applied to every job; zero values keep the engine
	// defaults.
	MinSearchInterval time.Duration
	SearchTimeout     time.Duration
}

func NewService(store *JobStore, model llms.Model, provider search.Provider, defaults research.Config) *Service {
	return &Service{
		Store:    store,
		Model:    model,
		Search:   provider,
		Defaults: defaults,
		Logger:   slog.Default(),
	}
}

type CreateJobRequest struct {
	Topic       string `json:"topic" binding:"required"`
	Breadth     int    `json:"breadth"`
	Depth       int    `json:"depth"`
	Concurrency int    `json:"concurrency"`
	RawDataOnly bool   `json:"raw_data_only"`
}

func (r CreateJobRequest) config(defaults research.Config) research.Config {
	cfg := defaults
	if r.Breadth != 0 {
		cfg.Breadth = r.Breadth
	}
	if r.Depth != 0 {
		cfg.Depth = r.Depth
	}
	if r.Concurrency != 0 {
		cfg.Concurrency = r.Concurrency
	}
	cfg.RawDataOnly = r.RawDataOnly
	return cfg.Clamped()
}

// CreateJob registers a job and starts the research run in a background
// goroutine. The returned job is still pending; poll GET /api/research/:id
// for the result.
func (s *Service) CreateJob(req CreateJobRequest) (*Job, error) {
	if req.Topic == "" {
		return nil, fmt.Errorf("topic is required")
	}

	cfg := req.config(s.Defaults)
	job := s.Store.Create(req.Topic, cfg)
	go s.runWorker(job.ID, req.Topic, cfg)
	return job, nil
}

// newEngine builds a per-job engine with the service's tuning applied.
func (s *Service) newEngine(logger *slog.Logger) (*research.Engine, error) {
	engine, err := research.NewEngine(s.Model, s.Search)
	if err != nil {
		return nil, err
	}
	engine.Logger = logger
	if s.MinSearchInterval > 0 {
		engine.MinSearchInterval = s.MinSearchInterval
	}
	if s.SearchTimeout > 0 {
		engine.SearchTimeout = s.SearchTimeout
	}
	return engine, nil
}

func (s *Service) runWorker(jobID uuid.UUID, topic string, cfg research.Config) {
	ctx := context.Background()
	s.Store.SetRunning(jobID)

	jobLogger := slog.New(NewJobLogHandler(s.Store, jobID))

	engine, err := s.newEngine(jobLogger)
	if err != nil {
		s.failJob(jobID, jobLogger, err)
		return
	}

	out, err := engine.Run(ctx, topic, cfg)
	if err != nil {
		s.failJob(jobID, jobLogger, err)
		return
	}

	s.Store.Complete(jobID, out)
	s.Logger.Info("research job completed", "job_id", jobID.String())
}

func (s *Service) failJob(jobID uuid.UUID, jobLogger *slog.Logger, err error) {
	jobLogger.Error("research failed", "error", err.Error())
	s.Store.Fail(jobID, err.Error())
	s.Logger.Error("research job failed", "job_id", jobID.String(), "error", err.Error())
}

// RunDirect executes a research run synchronously on the caller's context,
// bypassing the job store. Used by the MCP tool call path.
func (s *Service) RunDirect(ctx context.Context, topic string, cfg research.Config) (*research.Output, error) {
	engine, err := s.newEngine(s.Logger)
	if err != nil {
		return nil, err
	}
	return engine.Run(ctx, topic, cfg)
}

// ClarifyingQuestions generates follow-up questions that would sharpen a
// research topic, without running the workflow.
func (s *Service) ClarifyingQuestions(ctx context.Context, topic string) ([]string, error) {
	engine, err := s.newEngine(s.Logger)
	if err != nil {
		return nil, err
	}
	return engine.ClarifyingQuestions(ctx, topic)
}

func (s *Service) GetJob(id uuid.UUID) (*Job, bool) {
	return s.Store.Get(id)
}

func (s *Service) ListJobs() []Job {
	return s.Store.List()
}

func (s *Service) JobLogs(id uuid.UUID) ([]LogEntry, bool) {
	if _, ok := s.Store.Get(id); !ok {
		return nil, false
	}
	return s.Store.Logs(id), true
}
