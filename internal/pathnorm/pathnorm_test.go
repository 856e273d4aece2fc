package pathnorm_test

import (
	"testing"

	"logdoc/internal/docmap"
	"logdoc/internal/pathnorm"
)

func TestNormalize(t *testing.T) {
	n := pathnorm.Normalizer{
		Root:         "/work/app",
		ModulePrefix: "example.com/app",
		Rewrites: []pathnorm.Rewrite{
			{FromDir: "build/gen", ToDir: "internal/templates", FromExt: ".gen.go", ToExt: ".tmpl"},
			{FromDir: "dist", ToDir: "src", FromExt: ".js", ToExt: ".ts"},
		},
	}
	cases := []struct {
		name, raw, want string
	}{
		{name: "absolute under root", raw: "/work/app/internal/math/add.go", want: "internal/math/add.go"},
		{name: "trimpath", raw: "example.com/app/internal/math/add.go", want: "internal/math/add.go"},
		{name: "unclean absolute", raw: "/work/app/internal/../main.go", want: "main.go"},
		{name: "outside root", raw: "/usr/lib/go/src/fmt/print.go", want: "/usr/lib/go/src/fmt/print.go"},
		{name: "dist rewrite", raw: "/work/app/dist/math/add.js", want: "src/math/add.ts"},
		{name: "generated rewrite", raw: "/work/app/build/gen/page.gen.go", want: "internal/templates/page.tmpl"},
		{name: "dir matches ext does not", raw: "/work/app/dist/math/add.map", want: "dist/math/add.map"},
		{name: "already relative", raw: "internal/math/add.go", want: "internal/math/add.go"},
		{name: "empty", raw: "", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := n.Normalize(tc.raw); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	n := pathnorm.Normalizer{
		Root:     "/work/app",
		Rewrites: []pathnorm.Rewrite{{FromDir: "dist", ToDir: "src", FromExt: ".js", ToExt: ".ts"}},
	}
	for _, raw := range []string{
		"/work/app/main.go",
		"/work/app/dist/a/b.js",
		"src/a/b.ts",
		"/elsewhere/c.go",
		"relative/d.go",
	} {
		once := n.Normalize(raw)
		if twice := n.Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q then %q", raw, once, twice)
		}
	}
}

func TestRewriteThenLookupMatchesSourceLookup(t *testing.T) {
	n := pathnorm.Normalizer{
		Root:     "/work/app",
		Rewrites: []pathnorm.Rewrite{{FromDir: "dist", ToDir: "src", FromExt: ".js", ToExt: ".ts"}},
	}
	idx := docmap.NewIndex(docmap.Map{
		"src/math/add.ts": {{Start: 2, End: 9, FirstParagraph: "Adds."}},
	})
	for line := 1; line <= 10; line++ {
		viaBuild, okBuild := idx.Lookup(n.Normalize("/work/app/dist/math/add.js"), line)
		viaSource, okSource := idx.Lookup(n.Normalize("/work/app/src/math/add.ts"), line)
		if viaBuild != viaSource || okBuild != okSource {
			t.Fatalf("line %d: build (%q,%v) != source (%q,%v)", line, viaBuild, okBuild, viaSource, okSource)
		}
	}
}

func TestZeroNormalizer(t *testing.T) {
	var n pathnorm.Normalizer
	if got := n.Normalize(`/a/b/../c.go`); got != "/a/c.go" {
		t.Fatalf("zero normalizer = %q", got)
	}
}
