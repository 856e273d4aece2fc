package docindex

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"logdoc/internal/docmap"
	"logdoc/internal/logging"
)

// Options configures a source tree walk.
type Options struct {
	// IncludeTests indexes _test.go files as well.
	IncludeTests bool
	// Exclude lists base names or slash-separated relative path patterns
	// (filepath.Match syntax) to skip.
	Exclude []string
	Logger  *slog.Logger
}

// SkippedFile records a source file that could not be indexed.
type SkippedFile struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Report summarizes one indexing run.
type Report struct {
	Root    string        `json:"root"`
	Files   int           `json:"files"`
	Indexed int           `json:"indexed"`
	Spans   int           `json:"spans"`
	Skipped []SkippedFile `json:"skipped,omitempty"`
}

// Indexer extracts documented function spans from Go sources.
type Indexer struct {
	opts   Options
	logger *slog.Logger
}

// New constructs an Indexer.
func New(opts Options) *Indexer {
	return &Indexer{
		opts:   opts,
		logger: logging.NewComponentLogger(opts.Logger, "docindex"),
	}
}

// Index walks root and returns the span map keyed by slash-separated paths
// relative to root. Only an unusable root is reported as an error; per-file
// failures land in the report.
func (ix *Indexer) Index(ctx context.Context, root string) (docmap.Map, Report, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, Report{}, fmt.Errorf("resolve root %q: %w", root, err)
	}
	if err := checkRoot(absRoot); err != nil {
		return nil, Report{}, err
	}

	report := Report{Root: absRoot}
	out := docmap.Map{}

	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		rel, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if err != nil {
			if d != nil && d.IsDir() && path != absRoot {
				ix.skip(&report, rel, err)
				return fs.SkipDir
			}
			ix.skip(&report, rel, err)
			return nil
		}
		if d.IsDir() {
			if path != absRoot && ix.skipDir(rel, d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if !ix.wantFile(rel, d.Name()) {
			return nil
		}

		report.Files++
		src, readErr := os.ReadFile(path)
		if readErr != nil {
			ix.skip(&report, rel, readErr)
			return nil
		}
		spans, parseErr := ParseSource(rel, src)
		if parseErr != nil {
			ix.skip(&report, rel, parseErr)
			return nil
		}
		if len(spans) == 0 {
			return nil
		}
		out[rel] = spans
		report.Indexed++
		report.Spans += len(spans)
		return nil
	})
	if walkErr != nil {
		if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			return nil, report, walkErr
		}
		return nil, report, fmt.Errorf("walk %s: %w", absRoot, walkErr)
	}

	ix.logger.Info("source tree indexed",
		logging.String(logging.FieldEventType, "index_complete"),
		logging.String("root", absRoot),
		logging.Int("files", report.Files),
		logging.Int("indexed", report.Indexed),
		logging.Int("spans", report.Spans),
		logging.Int("skipped", len(report.Skipped)),
	)
	return out, report, nil
}

func (ix *Indexer) skip(report *Report, rel string, err error) {
	report.Skipped = append(report.Skipped, SkippedFile{Path: rel, Reason: err.Error()})
	logging.WarnWithContext(ix.logger, "source file skipped", "index_file_skipped",
		logging.String("path", rel),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "fix the syntax error or exclude the path"),
		logging.String(logging.FieldImpact, "log calls from this file carry no description"),
	)
}

func (ix *Indexer) skipDir(rel, name string) bool {
	if name == "vendor" || name == "testdata" {
		return true
	}
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
		return true
	}
	return ix.excluded(rel, name)
}

func (ix *Indexer) wantFile(rel, name string) bool {
	if !strings.HasSuffix(name, ".go") {
		return false
	}
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
		return false
	}
	if !ix.opts.IncludeTests && strings.HasSuffix(name, "_test.go") {
		return false
	}
	return !ix.excluded(rel, name)
}

func (ix *Indexer) excluded(rel, name string) bool {
	for _, pattern := range ix.opts.Exclude {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if pattern == name || pattern == rel {
			return true
		}
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
