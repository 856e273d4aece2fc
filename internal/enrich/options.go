package enrich

// Option adjusts a single log call.
type Option func(*callOptions)

type callOptions struct {
	stack   bool
	snippet bool
	window  int
}

// WithStack attaches the current goroutine's stack trace.
func WithStack() Option {
	return func(o *callOptions) { o.stack = true }
}

// WithSnippet attaches the source lines around the call site using the
// engine's default window.
func WithSnippet() Option {
	return func(o *callOptions) { o.snippet = true }
}

// WithSnippetContext attaches a snippet with n lines on each side of the
// call site. Zero shows only the call line.
func WithSnippetContext(n int) Option {
	return func(o *callOptions) {
		o.snippet = true
		o.window = n
	}
}

func collectOptions(defaultWindow int, opts []Option) callOptions {
	co := callOptions{window: defaultWindow}
	for _, opt := range opts {
		if opt != nil {
			opt(&co)
		}
	}
	return co
}
