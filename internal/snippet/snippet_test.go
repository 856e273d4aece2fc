package snippet_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"logdoc/internal/snippet"
)

func tenLines() []byte {
	var b strings.Builder
	for i := 1; i <= 10; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}
	return []byte(b.String())
}

func TestFormatClampsAtFileStart(t *testing.T) {
	got, ok := snippet.Format(tenLines(), 1, 3)
	if !ok {
		t.Fatal("expected snippet")
	}
	want := strings.Join([]string{
		">    1 | line 1",
		"     2 | line 2",
		"     3 | line 3",
		"     4 | line 4",
	}, "\n")
	if got != want {
		t.Fatalf("snippet mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestFormatClampsAtFileEnd(t *testing.T) {
	got, ok := snippet.Format(tenLines(), 9, 3)
	if !ok {
		t.Fatal("expected snippet")
	}
	rows := strings.Split(got, "\n")
	if len(rows) != 5 {
		t.Fatalf("expected lines 6-10, got %q", got)
	}
	if rows[0] != "     6 | line 6" || rows[3] != ">    9 | line 9" || rows[4] != "    10 | line 10" {
		t.Fatalf("unexpected rows %q", rows)
	}
}

func TestFormatHandlesCRLFAndZeroWindow(t *testing.T) {
	got, ok := snippet.Format([]byte("a\r\nb\r\nc\r\n"), 2, 0)
	if !ok || got != ">    2 | b" {
		t.Fatalf("got (%q, %v)", got, ok)
	}
}

func TestFormatOutOfRange(t *testing.T) {
	for _, line := range []int{0, -1, 11} {
		if _, ok := snippet.Format(tenLines(), line, 3); ok {
			t.Errorf("line %d: expected no snippet", line)
		}
	}
	if _, ok := snippet.Format(nil, 1, 3); ok {
		t.Error("empty source: expected no snippet")
	}
}

func TestCaptureReadsFileAndSwallowsErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "src.go")
	if err := os.WriteFile(path, tenLines(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, ok := snippet.Capture(path, 5, -1)
	if !ok || len(strings.Split(got, "\n")) != 7 {
		t.Fatalf("default window should give 7 rows, got (%q, %v)", got, ok)
	}
	if _, ok := snippet.Capture(filepath.Join(t.TempDir(), "missing.go"), 1, 3); ok {
		t.Fatal("missing file should yield no snippet")
	}
	if _, ok := snippet.Capture("", 1, 3); ok {
		t.Fatal("empty path should yield no snippet")
	}
}

func TestStackIncludesCaller(t *testing.T) {
	if st := snippet.Stack(); !strings.Contains(st, "TestStackIncludesCaller") {
		t.Fatalf("stack missing caller:\n%s", st)
	}
}

func TestFormatNegativeWindowUsesDefault(t *testing.T) {
	got, ok := snippet.Format(tenLines(), 5, -1)
	if !ok {
		t.Fatal("expected snippet")
	}
	want, _ := snippet.Format(tenLines(), 5, snippet.DefaultWindow)
	if got != want {
		t.Fatalf("negative window mismatch:\n got %q\nwant %q", got, want)
	}
	if lines := strings.Count(got, "\n") + 1; lines != 2*snippet.DefaultWindow+1 {
		t.Fatalf("expected %d lines, got %d", 2*snippet.DefaultWindow+1, lines)
	}
}
