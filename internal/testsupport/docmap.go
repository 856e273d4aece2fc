package testsupport

import (
	"context"
	"testing"

	"logdoc/internal/config"
	"logdoc/internal/docmap"
)

// MustSaveMap persists m where cfg expects the declaration map.
func MustSaveMap(t testing.TB, cfg *config.Config, m docmap.Map) {
	t.Helper()

	format, err := docmap.ParseFormat(cfg.Index.Format, cfg.Index.MapPath)
	if err != nil {
		t.Fatalf("docmap.ParseFormat: %v", err)
	}
	if err := docmap.Save(context.Background(), cfg.Index.MapPath, m, format); err != nil {
		t.Fatalf("docmap.Save: %v", err)
	}
}
