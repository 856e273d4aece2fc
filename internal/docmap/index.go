package docmap

import (
	"cmp"
	"slices"
	"sort"
)

// Index is an immutable, lookup-ready view over a Map. It is safe for
// concurrent use.
type Index struct {
	files map[string]fileSpans
}

type fileSpans struct {
	spans []Span
	// parent[i] is the index of the closest span enclosing spans[i], or -1.
	parent []int
}

// NewIndex sorts each file's spans by start line (wider first on ties) and
// links every span to its enclosing parent. The input map is not modified.
func NewIndex(m Map) *Index {
	idx := &Index{files: make(map[string]fileSpans, len(m))}
	for path, entries := range m {
		if len(entries) == 0 {
			continue
		}
		spans := make([]Span, 0, len(entries))
		for _, s := range entries {
			if s.Start <= 0 || s.End < s.Start {
				continue
			}
			spans = append(spans, s)
		}
		slices.SortStableFunc(spans, func(a, b Span) int {
			if c := cmp.Compare(a.Start, b.Start); c != 0 {
				return c
			}
			return cmp.Compare(b.End, a.End)
		})

		parent := make([]int, len(spans))
		stack := make([]int, 0, 8)
		for i, s := range spans {
			for len(stack) > 0 && spans[stack[len(stack)-1]].End < s.Start {
				stack = stack[:len(stack)-1]
			}
			parent[i] = -1
			if len(stack) > 0 {
				parent[i] = stack[len(stack)-1]
			}
			stack = append(stack, i)
		}
		idx.files[path] = fileSpans{spans: spans, parent: parent}
	}
	return idx
}

// Span returns the innermost span of path containing line.
func (idx *Index) Span(path string, line int) (Span, bool) {
	if idx == nil || line <= 0 {
		return Span{}, false
	}
	fs, ok := idx.files[path]
	if !ok {
		return Span{}, false
	}

	// Last span starting at or before line.
	i := sort.Search(len(fs.spans), func(i int) bool { return fs.spans[i].Start > line }) - 1
	for i >= 0 {
		if fs.spans[i].End >= line {
			return fs.spans[i], true
		}
		i = fs.parent[i]
	}
	return Span{}, false
}

// Lookup resolves the description for path and line. It reports false when
// no span contains the line or the matching span is suppressed.
func (idx *Index) Lookup(path string, line int) (string, bool) {
	span, ok := idx.Span(path, line)
	if !ok {
		return "", false
	}
	return span.Description()
}

// Has reports whether path has any indexed spans.
func (idx *Index) Has(path string) bool {
	if idx == nil {
		return false
	}
	_, ok := idx.files[path]
	return ok
}

// Paths returns the indexed paths in lexical order.
func (idx *Index) Paths() []string {
	if idx == nil {
		return nil
	}
	out := make([]string, 0, len(idx.files))
	for path := range idx.files {
		out = append(out, path)
	}
	slices.Sort(out)
	return out
}

// Spans returns a copy of the sorted spans for path.
func (idx *Index) Spans(path string) []Span {
	if idx == nil {
		return nil
	}
	fs, ok := idx.files[path]
	if !ok {
		return nil
	}
	return slices.Clone(fs.spans)
}
