// Package snippet captures source excerpts and stack traces for log records.
package snippet

import (
	"bytes"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
)

// DefaultWindow is the number of lines captured on each side of the
// requested line.
const DefaultWindow = 3

// Capture reads file and returns lines line-window..line+window clamped to
// the file bounds, one per row as "> %4d | text" for the requested line and
// "  %4d | text" otherwise. Any failure yields false; the file may simply not
// exist where the binary runs.
func Capture(file string, line, window int) (string, bool) {
	if file == "" || line <= 0 {
		return "", false
	}
	if window < 0 {
		window = DefaultWindow
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", false
	}
	return Format(data, line, window)
}

// Format renders the window around line from in-memory source. A negative
// window selects DefaultWindow.
func Format(src []byte, line, window int) (string, bool) {
	if window < 0 {
		window = DefaultWindow
	}
	lines := splitLines(src)
	if line <= 0 || line > len(lines) {
		return "", false
	}
	start := max(1, line-window)
	end := min(len(lines), line+window)

	var buf strings.Builder
	for i := start; i <= end; i++ {
		mark := ' '
		if i == line {
			mark = '>'
		}
		if i > start {
			buf.WriteByte('\n')
		}
		fmt.Fprintf(&buf, "%c %4d | %s", mark, i, lines[i-1])
	}
	return buf.String(), true
}

func splitLines(src []byte) []string {
	if len(src) == 0 {
		return nil
	}
	src = bytes.TrimSuffix(src, []byte("\n"))
	raw := strings.Split(string(src), "\n")
	for i, l := range raw {
		raw[i] = strings.TrimSuffix(l, "\r")
	}
	return raw
}

// Stack returns the calling goroutine's stack trace. It is comparatively
// expensive and only called when a log call asks for it.
func Stack() string {
	return string(debug.Stack())
}
