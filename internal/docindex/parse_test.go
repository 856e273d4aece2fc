package docindex_test

import (
	"testing"

	"logdoc/internal/docindex"
	"logdoc/internal/docmap"
)

const sampleSource = `package sample

// Add sums its inputs.
//
// Longer discussion that should not
// appear in log records.
func Add(xs ...int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}

// Sub subtracts.
//
//logdoc:desc Sequential subtraction
func Sub(a, b int) int {
	return a - b
}

// hidden is documented but must stay quiet.
//
//logdoc:nolog
//logdoc:desc ignored because nolog wins
func hidden() {}

// quiet uses an empty override.
//
//logdoc:desc
func quiet() {}

func undocumented() {}

type Calc struct{}

// Mul multiplies
// across two lines.
func (c *Calc) Mul(a, b int) int {
	return a * b
}

// handler serves requests.
var handler = func() {}

func Outer() {
	// inner does the work.
	inner := func() {
		_ = 1
	}
	inner()
}
`

func findSpan(t *testing.T, spans []docmap.Span, name string) docmap.Span {
	t.Helper()
	for _, s := range spans {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("span %q not found in %#v", name, spans)
	return docmap.Span{}
}

func TestParseSourceExtractsSpans(t *testing.T) {
	spans, err := docindex.ParseSource("sample.go", []byte(sampleSource))
	if err != nil {
		t.Fatalf("ParseSource: %v", err)
	}
	if len(spans) != 9 {
		t.Fatalf("expected 9 spans, got %d: %#v", len(spans), spans)
	}
	for i := 1; i < len(spans); i++ {
		if spans[i].Start < spans[i-1].Start {
			t.Fatalf("spans not in document order: %#v", spans)
		}
	}

	add := findSpan(t, spans, "Add")
	if add.Start != 7 || add.End != 13 {
		t.Errorf("Add span = %d-%d, want 7-13", add.Start, add.End)
	}
	if add.FirstParagraph != "Add sums its inputs." {
		t.Errorf("Add first paragraph = %q", add.FirstParagraph)
	}
	if add.Override != nil {
		t.Errorf("Add override = %q, want nil", *add.Override)
	}

	sub := findSpan(t, spans, "Sub")
	if desc, ok := sub.Description(); !ok || desc != "Sequential subtraction" {
		t.Errorf("Sub description = (%q, %v)", desc, ok)
	}
	if sub.FirstParagraph != "Sub subtracts." {
		t.Errorf("directive leaked into first paragraph: %q", sub.FirstParagraph)
	}

	if h := findSpan(t, spans, "hidden"); !h.Suppressed() || h.FirstParagraph == "" {
		t.Errorf("hidden should be suppressed with a paragraph, got %#v", h)
	}
	if q := findSpan(t, spans, "quiet"); !q.Suppressed() {
		t.Errorf("empty logdoc:desc should suppress, got %#v", q)
	}
	if u := findSpan(t, spans, "undocumented"); u.FirstParagraph != "" || u.Override != nil {
		t.Errorf("undocumented should carry no text, got %#v", u)
	}
	if m := findSpan(t, spans, "Calc.Mul"); m.FirstParagraph != "Mul multiplies across two lines." {
		t.Errorf("method paragraph = %q", m.FirstParagraph)
	}
	if h := findSpan(t, spans, "handler"); h.FirstParagraph != "handler serves requests." {
		t.Errorf("package-level literal doc = %q", h.FirstParagraph)
	}

	outer := findSpan(t, spans, "Outer")
	inner := findSpan(t, spans, "inner")
	if inner.FirstParagraph != "inner does the work." {
		t.Errorf("inner literal doc = %q", inner.FirstParagraph)
	}
	if outer.FirstParagraph != "" {
		t.Errorf("Outer has no doc, got %q", outer.FirstParagraph)
	}
	if inner.Start <= outer.Start || inner.End >= outer.End {
		t.Errorf("inner %d-%d not nested in outer %d-%d", inner.Start, inner.End, outer.Start, outer.End)
	}
}

func TestParseSourceNestedLookupPrefersInner(t *testing.T) {
	spans, err := docindex.ParseSource("sample.go", []byte(sampleSource))
	if err != nil {
		t.Fatalf("ParseSource: %v", err)
	}
	idx := docmap.NewIndex(docmap.Map{"sample.go": spans})
	inner := findSpan(t, spans, "inner")
	got, ok := idx.Lookup("sample.go", inner.Start+1)
	if !ok || got != "inner does the work." {
		t.Fatalf("lookup inside inner = (%q, %v)", got, ok)
	}
}

func TestParseSourceAnonymousLiteralHasNoName(t *testing.T) {
	src := `package p

func Run(f func()) { f() }

func Caller() {
	Run(func() {})
}
`
	spans, err := docindex.ParseSource("p.go", []byte(src))
	if err != nil {
		t.Fatalf("ParseSource: %v", err)
	}
	if len(spans) != 3 {
		t.Fatalf("expected 3 spans, got %#v", spans)
	}
	if spans[2].Name != "" || spans[2].Start != 6 {
		t.Fatalf("unexpected literal span %#v", spans[2])
	}
}

func TestParseSourceRejectsInvalidGo(t *testing.T) {
	if _, err := docindex.ParseSource("bad.go", []byte("package p\nfunc {")); err == nil {
		t.Fatal("expected parse error")
	}
}
