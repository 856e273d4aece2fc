package main

import (
	"fmt"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"logdoc/internal/docmap"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show [file]",
		Short: "List indexed files, or the spans of one file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			m, err := ctx.loadMap(cmd.Context())
			if err != nil {
				return err
			}

			if len(args) == 0 {
				if jsonOutput {
					return writeJSON(cmd, m)
				}
				return showFiles(cmd, m)
			}

			key := mapKey(cfg.Normalizer().Normalize, args[0])
			spans, ok := m[key]
			if !ok {
				return fmt.Errorf("%s is not in the declaration map", key)
			}
			if jsonOutput {
				return writeJSON(cmd, map[string][]docmap.Span{key: spans})
			}
			return showSpans(cmd, key, spans)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print spans as JSON")
	return cmd
}

// mapKey normalizes a user-supplied path. Relative paths are taken as
// relative to the working directory first, then as map keys.
func mapKey(normalize func(string) string, arg string) string {
	if !filepath.IsAbs(arg) {
		if abs, err := filepath.Abs(arg); err == nil {
			if key := normalize(abs); !filepath.IsAbs(filepath.FromSlash(key)) {
				return key
			}
		}
	}
	return normalize(arg)
}

func showFiles(cmd *cobra.Command, m docmap.Map) error {
	paths := make([]string, 0, len(m))
	for path := range m {
		paths = append(paths, path)
	}
	slices.Sort(paths)

	rows := make([][]string, 0, len(paths))
	for _, path := range paths {
		documented := 0
		for _, span := range m[path] {
			if desc, ok := span.Description(); ok && desc != "" {
				documented++
			}
		}
		rows = append(rows, []string{path, strconv.Itoa(len(m[path])), strconv.Itoa(documented)})
	}
	files, spans := m.Files()
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderTable([]string{"File", "Spans", "Documented"}, rows, []columnAlignment{alignLeft, alignRight, alignRight}))
	fmt.Fprintf(out, "%d files, %d spans\n", files, spans)
	return nil
}

func showSpans(cmd *cobra.Command, path string, spans []docmap.Span) error {
	rows := make([][]string, 0, len(spans))
	for _, span := range spans {
		name := span.Name
		if name == "" {
			name = "(func literal)"
		}
		desc, _ := span.Description()
		switch {
		case span.Suppressed():
			desc = "(suppressed)"
		case desc == "":
			desc = "-"
		}
		rows = append(rows, []string{strconv.Itoa(span.Start), strconv.Itoa(span.End), name, desc})
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, path)
	fmt.Fprintln(out, renderTable([]string{"Start", "End", "Name", "Description"}, rows, []columnAlignment{alignRight, alignRight, alignLeft, alignLeft}))
	return nil
}
