package server

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mikeboe/deepresearch/pkg/research"
)

const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

const maxListedJobs = 50

// Job is one research run tracked by the API.
type Job struct {
	ID        uuid.UUID        `json:"id"`
	Topic     string           `json:"topic"`
	Status    string           `json:"status"`
	Report    *string          `json:"report,omitempty"`
	Data      *research.Result `json:"data,omitempty"`
	Error     string           `json:"error,omitempty"`
	Config    research.Config  `json:"config"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type LogEntry struct {
	ID        int             `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Level     string          `json:"level"`
	Message   string          `json:"message"`
	Metadata  json.RawMessage `json:"metadata"`
}

// JobStore keeps jobs and their logs in memory for the lifetime of the
// process. Research results are not persisted anywhere else.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]*Job
	logs map[uuid.UUID][]LogEntry
}

func NewJobStore() *JobStore {
	return &JobStore{
		jobs: make(map[uuid.UUID]*Job),
		logs: make(map[uuid.UUID][]LogEntry),
	}
}

func (s *JobStore) Create(topic string, cfg research.Config) *Job {
	now := time.Now()
	job := &Job{
		ID:        uuid.New(),
		Topic:     topic,
		Status:    StatusPending,
		Config:    cfg,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	copied := *job
	return &copied
}

func (s *JobStore) Get(id uuid.UUID) (*Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, false
	}
	copied := *job
	return &copied, true
}

// List returns the most recent jobs, newest first.
func (s *JobStore) List() []Job {
	s.mu.RLock()
	jobs := make([]Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, *job)
	}
	s.mu.RUnlock()

	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})
	if len(jobs) > maxListedJobs {
		jobs = jobs[:maxListedJobs]
	}
	return jobs
}

func (s *JobStore) SetRunning(id uuid.UUID) {
	s.update(id, func(job *Job) {
		job.Status = StatusRunning
	})
}

func (s *JobStore) Complete(id uuid.UUID, out *research.Output) {
	s.update(id, func(job *Job) {
		job.Status = StatusCompleted
		job.Report = out.Report
		data := out.Data
		job.Data = &data
	})
}

func (s *JobStore) Fail(id uuid.UUID, reason string) {
	s.update(id, func(job *Job) {
		job.Status = StatusFailed
		job.Error = reason
	})
}

func (s *JobStore) update(id uuid.UUID, apply func(*Job)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return
	}
	apply(job)
	job.UpdatedAt = time.Now()
}

func (s *JobStore) AppendLog(id uuid.UUID, timestamp time.Time, level, message string, metadata json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.logs[id]
	s.logs[id] = append(entries, LogEntry{
		ID:        len(entries) + 1,
		Timestamp: timestamp,
		Level:     level,
		Message:   message,
		Metadata:  metadata,
	})
}

func (s *JobStore) Logs(id uuid.UUID) []LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.logs[id]
	copied := make([]LogEntry, len(entries))
	copy(copied, entries)
	return copied
}
