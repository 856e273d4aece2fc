// Package main hosts the logdoc CLI.
//
// The Cobra command tree builds the declaration map from a source tree
// (index), inspects it (show, lookup), emits a single enriched record through
// the runtime engine (emit), and scaffolds configuration (config). Config
// resolution and diagnostics logging are wired once in commandContext so
// subcommands only deal with their own flags.
package main
