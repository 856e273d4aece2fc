// Package docindex builds the declaration map consumed by logdoc at runtime.
//
// It walks a Go source tree, parses every file with comments, and records
// the line span of every function, method, and function literal together
// with the first paragraph of its doc comment. Two comment directives refine
// what a log line will show:
//
//	//logdoc:desc Short description used instead of the doc paragraph
//	//logdoc:nolog
//
// logdoc:nolog suppresses the description for the function even when it is
// documented, and wins over any logdoc:desc in the same comment. Directives
// are invisible to go doc, so they do not leak into rendered documentation.
//
// Files that fail to parse are reported and skipped; a single bad file never
// aborts the build.
package docindex
