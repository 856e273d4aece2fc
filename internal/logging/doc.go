// Package logging builds the slog loggers used by logdoc's own diagnostics
// and by the default enrichment sink.
//
// It owns the console and JSON handlers, level and output plumbing, and the
// run-aware handler that stamps run_id on every record. Terminal outputs use
// the configured format ("auto" picks console for a TTY and JSON otherwise);
// file outputs are always JSON so they stay machine readable. LOGDOC_LOG_LEVEL
// overrides the configured level without touching config files.
//
// A no-op logger is available for tests and wiring code that cannot fail.
package logging
