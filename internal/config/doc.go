// Package config loads, normalizes, and validates logdoc configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours environment overrides such as LOGDOC_MAP. The same
// file drives the indexer, the runtime enrichment engine, and the CLI, so a
// map written by `logdoc index` is found again by the process that logs.
package config
