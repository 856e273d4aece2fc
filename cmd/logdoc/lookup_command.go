package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"logdoc/internal/docmap"
)

type lookupResult struct {
	Input      string       `json:"input"`
	Key        string       `json:"key"`
	Line       int          `json:"line"`
	Found      bool         `json:"found"`
	Span       *docmap.Span `json:"span,omitempty"`
	Desc       string       `json:"desc,omitempty"`
	Suppressed bool         `json:"suppressed,omitempty"`
}

func newLookupCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "lookup <file:line>",
		Short: "Resolve the description a log call at file:line would carry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			file, line, err := parseLocation(args[0])
			if err != nil {
				return err
			}
			m, err := ctx.loadMap(cmd.Context())
			if err != nil {
				return err
			}

			index := docmap.NewIndex(m)
			result := lookupResult{
				Input: args[0],
				Key:   mapKey(cfg.Normalizer().Normalize, file),
				Line:  line,
			}
			if span, ok := index.Span(result.Key, line); ok {
				result.Found = true
				result.Span = &span
				result.Suppressed = span.Suppressed()
				result.Desc, _ = index.Lookup(result.Key, line)
			}

			if jsonOutput {
				return writeJSON(cmd, result)
			}
			out := cmd.OutOrStdout()
			switch {
			case !result.Found:
				fmt.Fprintf(out, "%s:%d: no enclosing function in the declaration map\n", result.Key, line)
			case result.Suppressed:
				fmt.Fprintf(out, "%s:%d: %s (lines %d-%d) is suppressed\n", result.Key, line, spanName(*result.Span), result.Span.Start, result.Span.End)
			case result.Desc == "":
				fmt.Fprintf(out, "%s:%d: %s (lines %d-%d) has no doc comment\n", result.Key, line, spanName(*result.Span), result.Span.Start, result.Span.End)
			default:
				fmt.Fprintf(out, "%s:%d: %s (lines %d-%d)\n  %s\n", result.Key, line, spanName(*result.Span), result.Span.Start, result.Span.End, result.Desc)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as JSON")
	return cmd
}

func spanName(span docmap.Span) string {
	if span.Name == "" {
		return "func literal"
	}
	return span.Name
}
