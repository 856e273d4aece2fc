package testsupport

import (
	"path/filepath"
	"testing"

	"logdoc/internal/config"
	"logdoc/internal/pathnorm"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted in a fresh temp directory: sources live
// under <tmp>/src and the map is <tmp>/logdoc.json.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Index.Root = filepath.Join(base, "src")
	cfgVal.Index.MapPath = filepath.Join(base, "logdoc.json")
	cfgVal.Resolve.Root = cfgVal.Index.Root
	cfgVal.Logging.Format = "json"

	builder := &configBuilder{t: t, baseDir: base, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}
	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return builder.cfg
}

// WithSQLiteMap stores the map as SQLite instead of JSON.
func WithSQLiteMap() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Index.MapPath = filepath.Join(b.baseDir, "logdoc.db")
		b.cfg.Index.Format = "sqlite"
	}
}

// WithModulePrefix sets the -trimpath module prefix.
func WithModulePrefix(prefix string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Resolve.ModulePrefix = prefix
	}
}

// WithRewrite appends a path rewrite rule.
func WithRewrite(rw pathnorm.Rewrite) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Resolve.Rewrites = append(b.cfg.Resolve.Rewrites, rw)
	}
}

// WithService sets the service name on emitted records.
func WithService(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Enrich.Service = name
	}
}
