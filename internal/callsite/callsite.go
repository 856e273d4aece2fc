// Package callsite recovers the source location of a logging call.
package callsite

import (
	"runtime"
	"strings"
)

// Frame describes one resolved stack frame. Column is zero because the Go
// runtime does not record columns.
type Frame struct {
	File     string
	Line     int
	Column   int
	Function string
}

// Resolver returns the frame skip levels above its caller. skip 0 is the
// function that called ResolveCaller. A stack shallower than requested yields
// false, never an error.
type Resolver interface {
	ResolveCaller(skip int) (Frame, bool)
}

// Func adapts a plain function to Resolver.
type Func func(skip int) (Frame, bool)

// ResolveCaller implements Resolver.
func (f Func) ResolveCaller(skip int) (Frame, bool) {
	if f == nil {
		return Frame{}, false
	}
	return f(skip)
}

// Runtime resolves frames from the live goroutine stack.
type Runtime struct{}

// ResolveCaller implements Resolver using runtime.Callers so inlined frames
// are reported at their source location.
func (Runtime) ResolveCaller(skip int) (Frame, bool) {
	if skip < 0 {
		return Frame{}, false
	}
	var pcs [1]uintptr
	// +2 skips runtime.Callers and this method.
	if runtime.Callers(skip+2, pcs[:]) == 0 {
		return Frame{}, false
	}
	frame, _ := runtime.CallersFrames(pcs[:]).Next()
	if frame.File == "" || frame.Line == 0 {
		return Frame{}, false
	}
	return Frame{
		File:     frame.File,
		Line:     frame.Line,
		Function: ShortFunction(frame.Function),
	}, true
}

// ShortFunction strips the import path from a fully-qualified function name:
// "logdoc/internal/enrich.(*Engine).Log" becomes "enrich.(*Engine).Log".
func ShortFunction(name string) string {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	return name
}
