package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"logdoc/internal/config"
)

// EnvLevel overrides the configured log level when set.
const EnvLevel = "LOGDOC_LOG_LEVEL"

// Format names accepted by Options.Format.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
	FormatAuto    = "auto"
)

// Options describes logger construction parameters.
type Options struct {
	Level       string
	Format      string
	OutputPaths []string
	Development bool
	// RunID, when set, is stamped on every record that does not carry a
	// context-scoped run.
	RunID string
}

// New constructs a slog logger using the provided options.
func New(opts Options) (*slog.Logger, error) {
	level := ResolveLevel(opts.Level)
	levelVar := new(slog.LevelVar)
	levelVar.Set(level)

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = FormatConsole
	}
	switch format {
	case FormatConsole, FormatJSON, FormatAuto:
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	targets, err := openTargets(defaultSlice(opts.OutputPaths, []string{"stderr"}))
	if err != nil {
		return nil, err
	}

	addSource := opts.Development || level <= slog.LevelDebug
	handlers := make([]slog.Handler, 0, len(targets))
	for _, target := range targets {
		if !target.stream || streamFormat(format, target.writer) == FormatJSON {
			handlers = append(handlers, newJSONHandler(target.writer, levelVar, addSource))
			continue
		}
		handlers = append(handlers, newPrettyHandler(target.writer, levelVar, addSource))
	}

	return slog.New(newRunIDHandler(newFanoutHandler(handlers...), opts.RunID)), nil
}

// NewFromConfig creates a diagnostics logger from the [logging] section.
// Output goes to stderr so stdout stays free for command results.
func NewFromConfig(cfg *config.Config) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{Level: "info", Format: FormatAuto})
	}
	return New(Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stderr"},
	})
}

// ResolveLevel parses a configured level name, letting LOGDOC_LOG_LEVEL take
// precedence. Unknown names resolve to info.
func ResolveLevel(configured string) slog.Level {
	if env := strings.TrimSpace(os.Getenv(EnvLevel)); env != "" {
		configured = env
	}
	return parseLevel(configured)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func defaultSlice(value []string, fallback []string) []string {
	if len(value) == 0 {
		return append([]string(nil), fallback...)
	}
	return append([]string(nil), value...)
}

type target struct {
	writer io.Writer
	stream bool
}

func openTargets(paths []string) ([]target, error) {
	seen := map[string]struct{}{}
	var targets []target
	for _, path := range paths {
		trimmed := strings.TrimSpace(path)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}

		switch trimmed {
		case "stdout":
			targets = append(targets, target{writer: os.Stdout, stream: true})
		case "stderr":
			targets = append(targets, target{writer: os.Stderr, stream: true})
		default:
			if err := ensureLogDir(trimmed); err != nil {
				return nil, err
			}
			file, err := os.OpenFile(trimmed, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
			if err != nil {
				return nil, fmt.Errorf("open log file %s: %w", trimmed, err)
			}
			targets = append(targets, target{writer: file})
		}
	}
	if len(targets) == 0 {
		targets = append(targets, target{writer: os.Stderr, stream: true})
	}
	return targets, nil
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// streamFormat resolves "auto" for a terminal stream.
func streamFormat(format string, w io.Writer) string {
	if format != FormatAuto {
		return format
	}
	file, ok := w.(*os.File)
	if !ok {
		return FormatJSON
	}
	fd := file.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return FormatConsole
	}
	return FormatJSON
}
