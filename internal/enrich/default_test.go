package enrich_test

import (
	"context"
	"testing"

	"logdoc/internal/enrich"
	"logdoc/internal/runctx"
)

func TestPackageLogUsesDefaultEngine(t *testing.T) {
	rec := &recorder{}
	engine := newEngine(t, rec, frameAt("/repo/src/a.go", 5), &runctx.Store{})
	enrich.SetDefault(engine)
	enrich.SetDefault(nil)

	if enrich.Default() != engine {
		t.Fatal("Default should return the engine installed with SetDefault")
	}
	enrich.Log(context.Background(), "checkout_started", map[string]any{"cart": 2})

	got := rec.only(t)
	wantValue(t, got, enrich.KeyEvent, "checkout_started")
	wantValue(t, got, enrich.KeyDesc, "does X")
	wantValue(t, got, "cart", 2)
}
