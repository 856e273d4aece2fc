package enrich

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"logdoc/internal/callsite"
	"logdoc/internal/config"
	"logdoc/internal/docmap"
	"logdoc/internal/logging"
	"logdoc/internal/pathnorm"
	"logdoc/internal/runctx"
	"logdoc/internal/snippet"
)

// DefaultService is the service name used when none is configured.
const DefaultService = "logdoc"

// Options configures an Engine. Every field is optional.
type Options struct {
	// Sink receives records; defaults to JSON lines on stdout.
	Sink Sink
	// Index is the loaded declaration map. Nil behaves like a map without
	// the caller's file.
	Index      *docmap.Index
	Normalizer pathnorm.Normalizer
	// Resolver defaults to callsite.Runtime.
	Resolver callsite.Resolver
	// Runs defaults to runctx.Default. A run scoped to the call's context
	// takes precedence.
	Runs    *runctx.Store
	Service string
	// SnippetWindow is the default number of lines around the call site;
	// zero or negative selects snippet.DefaultWindow.
	SnippetWindow int
	Now           func() time.Time
	// Logger receives the engine's own diagnostics.
	Logger *slog.Logger
}

// Engine composes and emits enriched records. It is safe for concurrent use.
type Engine struct {
	sink       Sink
	index      *docmap.Index
	normalizer pathnorm.Normalizer
	resolver   callsite.Resolver
	runs       *runctx.Store
	service    string
	window     int
	now        func() time.Time
	logger     *slog.Logger
}

// New constructs an Engine, filling defaults for unset options.
func New(opts Options) *Engine {
	e := &Engine{
		sink:       opts.Sink,
		index:      opts.Index,
		normalizer: opts.Normalizer,
		resolver:   opts.Resolver,
		runs:       opts.Runs,
		service:    strings.TrimSpace(opts.Service),
		window:     opts.SnippetWindow,
		now:        opts.Now,
		logger:     logging.NewComponentLogger(opts.Logger, "enrich"),
	}
	if e.sink == nil {
		e.sink = NewJSONSink(os.Stdout, logging.ResolveLevel(""))
	}
	if e.resolver == nil {
		e.resolver = callsite.Runtime{}
	}
	if e.runs == nil {
		e.runs = runctx.Default
	}
	if e.service == "" {
		e.service = DefaultService
	}
	if e.window <= 0 {
		e.window = snippet.DefaultWindow
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// OptionsFromConfig loads the declaration map and builds engine options from
// cfg. A missing map is logged at debug and leaves Index nil; an unreadable
// one is logged as a warning. Only an invalid map format is an error. Sink is
// left unset.
func OptionsFromConfig(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Options, error) {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	logger = logging.NewComponentLogger(logger, "enrich")

	format, err := docmap.ParseFormat(cfg.Index.Format, cfg.Index.MapPath)
	if err != nil {
		return Options{}, fmt.Errorf("index.format: %w", err)
	}
	index, err := docmap.LoadIndex(ctx, cfg.Index.MapPath, format)
	switch {
	case err != nil:
		logging.WarnWithContext(logger, "declaration map unreadable", "map_load_failed",
			logging.String(logging.FieldPath, cfg.Index.MapPath),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "rebuild it with `logdoc index`"),
			logging.String(logging.FieldImpact, "records carry no descriptions"),
		)
		index = nil
	case index == nil:
		logger.Debug("declaration map not found", logging.String(logging.FieldPath, cfg.Index.MapPath))
	default:
		logger.Debug("declaration map loaded",
			logging.String(logging.FieldPath, cfg.Index.MapPath),
			logging.Int("files", len(index.Paths())),
		)
	}

	return Options{
		Index:         index,
		Normalizer:    cfg.Normalizer(),
		Service:       cfg.Enrich.Service,
		SnippetWindow: cfg.Enrich.SnippetContext,
		Logger:        logger,
	}, nil
}

// NewFromConfig builds an Engine writing JSON records to stdout at the
// configured level.
func NewFromConfig(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Engine, error) {
	opts, err := OptionsFromConfig(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	level := ""
	if cfg != nil {
		level = cfg.Logging.Level
	}
	opts.Sink = NewJSONSink(os.Stdout, logging.ResolveLevel(level))
	return New(opts), nil
}

// Log emits one enriched record for event. It never fails and never panics;
// sink errors are dropped.
func (e *Engine) Log(ctx context.Context, event string, payload map[string]any, opts ...Option) {
	_ = e.emit(ctx, 0, event, payload, opts)
}

// LogDepth is Log for wrappers: depth 1 attributes the record to the caller
// of the function that called LogDepth.
func (e *Engine) LogDepth(ctx context.Context, depth int, event string, payload map[string]any, opts ...Option) {
	_ = e.emit(ctx, max(depth, 0), event, payload, opts)
}

// Emit is Log that reports sink failures.
func (e *Engine) Emit(ctx context.Context, event string, payload map[string]any, opts ...Option) error {
	return e.emit(ctx, 0, event, payload, opts)
}

// ErrPanic wraps a panic recovered while composing or writing a record.
var ErrPanic = errors.New("enrich: recovered panic")

// emit must be called directly by the exported entry points: the resolver
// skip counts emit and the entry point.
func (e *Engine) emit(ctx context.Context, depth int, event string, payload map[string]any, opts []Option) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
			logging.ErrorWithContext(e.logger, "log enrichment panicked", "enrich_panic",
				logging.String("event", event),
				logging.Any("panic", r),
			)
		}
	}()
	if ctx == nil {
		ctx = context.Background()
	}

	frame, ok := e.resolver.ResolveCaller(depth + 2)
	rec := e.compose(ctx, event, payload, frame, ok, collectOptions(e.window, opts))
	if err := e.sink.Write(ctx, rec); err != nil {
		e.logger.Debug("sink write failed", logging.String("event", event), logging.Error(err))
		return err
	}
	return nil
}

func (e *Engine) compose(ctx context.Context, event string, payload map[string]any, frame callsite.Frame, haveFrame bool, co callOptions) Record {
	var rec Record
	rec.Set(KeyTS, e.now().UTC())
	rec.Set(KeyService, e.service)
	rec.Set(KeyEvent, event)

	if meta, ok := runctx.Resolve(ctx, e.runs); ok {
		rec.Set(KeyRunID, meta.RunID)
		setString(&rec, KeyModel, meta.Model)
		setString(&rec, KeySessionID, meta.SessionID)
		setString(&rec, KeyUserID, meta.UserID)
		if len(meta.Tags) > 0 {
			rec.Set(KeyTags, meta.Tags)
		}
	}

	var key string
	if haveFrame {
		setString(&rec, KeyFunction, frame.Function)
		rec.Set(KeyFile, frame.File)
		rec.Set(KeyLine, frame.Line)
		if frame.Column > 0 {
			rec.Set(KeyColumn, frame.Column)
		}
		key = e.normalizer.Normalize(frame.File)
		if desc, ok := e.index.Lookup(key, frame.Line); ok {
			setString(&rec, KeyDesc, desc)
		}
		if co.snippet {
			if text, ok := e.snippet(frame.File, key, frame.Line, co.window); ok {
				rec.Set(KeyCodeSnippet, text)
			}
		}
	}
	if co.stack {
		rec.Set(KeyStack, snippet.Stack())
	}

	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		rec.Set(k, payload[k])
	}
	return rec
}

// snippet reads the frame file, falling back to the normalized key under the
// normalizer root for -trimpath builds.
func (e *Engine) snippet(file, key string, line, window int) (string, bool) {
	if text, ok := snippet.Capture(file, line, window); ok {
		return text, true
	}
	if key == "" || e.normalizer.Root == "" || key == filepath.ToSlash(file) {
		return "", false
	}
	return snippet.Capture(filepath.Join(e.normalizer.Root, filepath.FromSlash(key)), line, window)
}

func setString(rec *Record, key, value string) {
	if value != "" {
		rec.Set(key, value)
	}
}
