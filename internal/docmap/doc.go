// Package docmap holds the file span map produced by the declaration indexer
// and answers "which documented function contains this line" at runtime.
//
// A Map is the persisted form: relative source path to the spans found in
// that file. An Index is the loaded, lookup-ready form. Spans may nest (a
// function literal inside a function), and lookups always resolve to the
// innermost span containing the requested line. A nil *Index is valid and
// behaves like an empty one, so callers never need to special-case a missing
// map file.
//
// Maps persist either as JSON (the default) or as a SQLite database; writers
// serialize on an adjacent lock file so concurrent index builds cannot
// interleave.
package docmap
