package server

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikeboe/deepresearch/pkg/research"
)

func TestJobLogHandlerRecordsToStore(t *testing.T) {
	store := NewJobStore()
	job := store.Create("topic", research.Config{})

	logger := slog.New(NewJobLogHandler(store, job.ID))
	logger.Info("Starting research", "topic", "zk proofs", "breadth", 2)
	logger.Warn("Search attempt failed")

	logs := store.Logs(job.ID)
	require.Len(t, logs, 2)

	assert.Equal(t, "INFO", logs[0].Level)
	assert.Equal(t, "Starting research", logs[0].Message)
	assert.JSONEq(t, `{"topic":"zk proofs","breadth":2}`, string(logs[0].Metadata))

	assert.Equal(t, "WARN", logs[1].Level)
	assert.Empty(t, logs[1].Metadata)
}

func TestJobLogHandlerWithAttrs(t *testing.T) {
	store := NewJobStore()
	job := store.Create("topic", research.Config{})

	logger := slog.New(NewJobLogHandler(store, job.ID)).With("job", "abc")
	logger.Info("message", "extra", 1)

	logs := store.Logs(job.ID)
	require.Len(t, logs, 1)
	assert.JSONEq(t, `{"job":"abc","extra":1}`, string(logs[0].Metadata))
}
