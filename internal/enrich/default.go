package enrich

import (
	"context"
	"sync"
	"sync/atomic"

	"logdoc/internal/config"
)

var (
	defaultEngine atomic.Pointer[Engine]
	defaultOnce   sync.Once
)

// Default returns the process-wide engine. On first use it is built from the
// discovered config file; if that fails, an engine without a declaration map
// is used.
func Default() *Engine {
	defaultOnce.Do(func() {
		if defaultEngine.Load() != nil {
			return
		}
		engine := New(Options{})
		if cfg, _, _, err := config.Load(""); err == nil {
			if built, err := NewFromConfig(context.Background(), cfg, nil); err == nil {
				engine = built
			}
		}
		defaultEngine.CompareAndSwap(nil, engine)
	})
	return defaultEngine.Load()
}

// SetDefault replaces the process-wide engine used by Log.
func SetDefault(e *Engine) {
	if e == nil {
		return
	}
	defaultEngine.Store(e)
}

// Log emits through the process-wide engine, attributing the record to the
// caller of Log.
func Log(ctx context.Context, event string, payload map[string]any, opts ...Option) {
	_ = Default().emit(ctx, 0, event, payload, opts)
}
