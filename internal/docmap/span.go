package docmap

// Span is one documented function-like region in a source file.
type Span struct {
	Start          int    `json:"start"`
	End            int    `json:"end"`
	Name           string `json:"name,omitempty"`
	FirstParagraph string `json:"firstParagraph,omitempty"`
	// Override replaces FirstParagraph when set. A pointer to the empty
	// string suppresses the description entirely.
	Override *string `json:"logdoc,omitempty"`
}

// Map is the persisted declaration index: slash-separated source paths
// relative to the indexed root, each with its spans in document order.
type Map map[string][]Span

// Contains reports whether line falls inside the span.
func (s Span) Contains(line int) bool {
	return s.Start <= line && line <= s.End
}

// Suppressed reports whether the span carries the explicit suppression marker.
func (s Span) Suppressed() bool {
	return s.Override != nil && *s.Override == ""
}

// Description returns the text a log record should carry for this span. The
// boolean is false when the span is suppressed.
func (s Span) Description() (string, bool) {
	if s.Override != nil {
		if *s.Override == "" {
			return "", false
		}
		return *s.Override, true
	}
	return s.FirstParagraph, true
}

// Suppress returns an override value that hides the description.
func Suppress() *string {
	empty := ""
	return &empty
}

// OverrideText returns an override value carrying text. An empty text is
// equivalent to Suppress.
func OverrideText(text string) *string {
	return &text
}

// Files returns the number of files and spans in the map.
func (m Map) Files() (files int, spans int) {
	for _, entries := range m {
		files++
		spans += len(entries)
	}
	return files, spans
}
