package server

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
)

// JobLogHandler is a slog.Handler that records log lines against a job in
// the store, so clients can stream progress for a run they started.
type JobLogHandler struct {
	store *JobStore
	jobID uuid.UUID
	attrs []slog.Attr
}

func NewJobLogHandler(store *JobStore, jobID uuid.UUID) *JobLogHandler {
	return &JobLogHandler{store: store, jobID: jobID}
}

func (h *JobLogHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func (h *JobLogHandler) Handle(_ context.Context, record slog.Record) error {
	fields := make(map[string]any, record.NumAttrs()+len(h.attrs))
	for _, attr := range h.attrs {
		fields[attr.Key] = attr.Value.Any()
	}
	record.Attrs(func(attr slog.Attr) bool {
		fields[attr.Key] = attr.Value.Any()
		return true
	})

	var metadata json.RawMessage
	if len(fields) > 0 {
		if encoded, err := json.Marshal(fields); err == nil {
			metadata = encoded
		}
	}

	h.store.AppendLog(h.jobID, record.Time, record.Level.String(), record.Message, metadata)
	return nil
}

func (h *JobLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &JobLogHandler{store: h.store, jobID: h.jobID, attrs: merged}
}

func (h *JobLogHandler) WithGroup(_ string) slog.Handler {
	return h
}
