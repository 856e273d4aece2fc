package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"logdoc/internal/config"
	"logdoc/internal/docindex"
	"logdoc/internal/docmap"
)

func newIndexCommand(ctx *commandContext) *cobra.Command {
	var outPath string
	var format string
	var includeTests bool
	var exclude []string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "index [dir]",
		Short: "Build the declaration map from a Go source tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			root := cfg.Index.Root
			if len(args) == 1 {
				if root, err = config.ExpandPath(args[0]); err != nil {
					return fmt.Errorf("resolve source root: %w", err)
				}
			}
			target := cfg.Index.MapPath
			if strings.TrimSpace(outPath) != "" {
				if target, err = config.ExpandPath(outPath); err != nil {
					return fmt.Errorf("resolve map path: %w", err)
				}
			}
			mapFormat, err := ctx.mapFormat(format, target)
			if err != nil {
				return err
			}

			indexer := docindex.New(docindex.Options{
				IncludeTests: includeTests || cfg.Index.IncludeTests,
				Exclude:      append(append([]string(nil), cfg.Index.Exclude...), exclude...),
				Logger:       logger,
			})
			m, report, err := indexer.Index(cmd.Context(), root)
			if err != nil {
				return fmt.Errorf("index %s: %w", root, err)
			}
			if err := docmap.Save(cmd.Context(), target, m, mapFormat); err != nil {
				return fmt.Errorf("write declaration map: %w", err)
			}

			if jsonOutput {
				return writeJSON(cmd, struct {
					docindex.Report
					MapPath string        `json:"mapPath"`
					Format  docmap.Format `json:"format"`
				}{report, target, mapFormat})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Indexed %d of %d files (%d spans) from %s\n", report.Indexed, report.Files, report.Spans, report.Root)
			fmt.Fprintf(out, "Wrote %s map to %s\n", mapFormat, target)
			if len(report.Skipped) > 0 {
				rows := make([][]string, 0, len(report.Skipped))
				for i, skipped := range report.Skipped {
					rows = append(rows, []string{strconv.Itoa(i + 1), skipped.Path, truncate(skipped.Reason, 120)})
				}
				fmt.Fprintln(out, renderTable([]string{"#", "Skipped", "Reason"}, rows, []columnAlignment{alignRight, alignLeft, alignLeft}))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Map destination (defaults to index.map_path)")
	cmd.Flags().StringVar(&format, "format", "", "Map format: json or sqlite (defaults to the file extension)")
	cmd.Flags().BoolVar(&includeTests, "include-tests", false, "Index _test.go files")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Additional names or paths to skip")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the report as JSON")
	return cmd
}
