package logging

import (
	"context"
	"log/slog"

	"logdoc/internal/runctx"
)

// runIDHandler stamps run_id on every record. A run scoped to the record's
// context wins over the fixed id.
type runIDHandler struct {
	base  slog.Handler
	runID string
}

func newRunIDHandler(base slog.Handler, runID string) slog.Handler {
	if base == nil {
		return NoopHandler{}
	}
	if _, ok := base.(NoopHandler); ok {
		return base
	}
	return &runIDHandler{base: base, runID: runID}
}

func (h *runIDHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *runIDHandler) Handle(ctx context.Context, record slog.Record) error {
	id := h.runID
	if meta, ok := runctx.FromContext(ctx); ok {
		id = meta.RunID
	}
	if id != "" {
		record.AddAttrs(slog.String(FieldRunID, id))
	}
	return h.base.Handle(ctx, record)
}

func (h *runIDHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &runIDHandler{base: h.base.WithAttrs(attrs), runID: h.runID}
}

func (h *runIDHandler) WithGroup(name string) slog.Handler {
	return &runIDHandler{base: h.base.WithGroup(name), runID: h.runID}
}
