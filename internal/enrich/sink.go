package enrich

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"logdoc/internal/logging"
)

// Sink receives composed records.
type Sink interface {
	Write(ctx context.Context, rec Record) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, rec Record) error

// Write implements Sink.
func (f SinkFunc) Write(ctx context.Context, rec Record) error {
	if f == nil {
		return nil
	}
	return f(ctx, rec)
}

// KeyLevel is the severity key JSONSink adds when the record has none.
const KeyLevel = "level"

// JSONSink writes each record as one JSON object per line, keys in record
// order. A time.Time ts is rendered with logging.TimestampLayout, and
// "level":"info" follows ts unless the record already carries a level.
type JSONSink struct {
	mu    sync.Mutex
	w     io.Writer
	level slog.Leveler
}

// NewJSONSink returns a JSONSink writing to w. Records are INFO; they are
// dropped when level is above INFO. A nil level means INFO.
func NewJSONSink(w io.Writer, level slog.Leveler) *JSONSink {
	if level == nil {
		level = slog.LevelInfo
	}
	return &JSONSink{w: w, level: level}
}

// Write implements Sink.
func (s *JSONSink) Write(_ context.Context, rec Record) error {
	if s.level.Level() > slog.LevelInfo {
		return nil
	}

	var out Record
	addLevel := !rec.Has(KeyLevel)
	if addLevel && !rec.Has(KeyTS) {
		out.Set(KeyLevel, "info")
		addLevel = false
	}
	for _, f := range rec.fields {
		value := f.Value
		if t, ok := value.(time.Time); ok && f.Key == KeyTS {
			value = t.UTC().Format(logging.TimestampLayout)
		}
		out.Set(f.Key, value)
		if f.Key == KeyTS && addLevel {
			out.Set(KeyLevel, "info")
		}
	}

	data, err := out.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	data = append(data, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.w.Write(data)
	return err
}

// clashFieldsGroup holds record fields whose keys collide with slog's
// built-in keys.
const clashFieldsGroup = "fields"

// SlogSink forwards each record to a slog pipeline as one INFO record. The
// event is the message and is also kept as the event attribute; a time.Time
// ts becomes the record time. Fields named like slog's built-in keys (time,
// level, msg, source) are nested under a "fields" group so the handler's own
// keys are never duplicated.
type SlogSink struct {
	Logger *slog.Logger
}

// Write implements Sink.
func (s SlogSink) Write(ctx context.Context, rec Record) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	handler := logger.Handler()
	if !handler.Enabled(ctx, slog.LevelInfo) {
		return nil
	}

	var ts time.Time
	if value, ok := rec.Get(KeyTS); ok {
		ts, _ = value.(time.Time)
	}
	var message string
	if value, ok := rec.Get(KeyEvent); ok {
		message = fmt.Sprint(value)
	}

	out := slog.NewRecord(ts, slog.LevelInfo, message, 0)
	var clashes []any
	for _, f := range rec.fields {
		switch f.Key {
		case KeyTS:
			if !ts.IsZero() {
				continue
			}
		case slog.TimeKey, slog.LevelKey, slog.MessageKey, slog.SourceKey:
			clashes = append(clashes, slog.Any(f.Key, f.Value))
			continue
		}
		out.AddAttrs(slog.Any(f.Key, f.Value))
	}
	if len(clashes) > 0 {
		out.AddAttrs(slog.Group(clashFieldsGroup, clashes...))
	}
	return handler.Handle(ctx, out)
}
