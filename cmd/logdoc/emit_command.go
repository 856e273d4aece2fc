package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"logdoc/internal/enrich"
	"logdoc/internal/logging"
	"logdoc/internal/runctx"
)

func newEmitCommand(ctx *commandContext) *cobra.Command {
	var meta runctx.Meta
	var withSnippet bool
	var snippetContext int
	var withStack bool

	cmd := &cobra.Command{
		Use:   "emit <event> [key=value...]",
		Short: "Start a run and emit one enriched record to stdout",
		Long: "Emit composes a record exactly as an instrumented program would and writes\n" +
			"it as JSON to stdout. The call site is this command, so descriptions appear\n" +
			"only when logdoc's own sources are in the map.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			payload, err := parsePayload(args[1:])
			if err != nil {
				return err
			}

			opts, err := enrich.OptionsFromConfig(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			opts.Sink = enrich.NewJSONSink(cmd.OutOrStdout(), logging.ResolveLevel(cfg.Logging.Level))
			engine := enrich.New(opts)
			runCtx := runctx.WithRun(cmd.Context(), meta)

			var callOpts []enrich.Option
			if cmd.Flags().Changed("context") {
				callOpts = append(callOpts, enrich.WithSnippetContext(snippetContext))
			} else if withSnippet {
				callOpts = append(callOpts, enrich.WithSnippet())
			}
			if withStack {
				callOpts = append(callOpts, enrich.WithStack())
			}

			if err := engine.Emit(runCtx, args[0], payload, callOpts...); err != nil {
				return fmt.Errorf("emit %s: %w", args[0], err)
			}
			logging.WithContext(runCtx, logger).DebugContext(runCtx, "record emitted",
				logging.String(logging.FieldEventType, "record_emitted"),
				logging.String("event", args[0]),
				logging.Int("payload_keys", len(payload)),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&meta.RunID, "run-id", "", "Run identifier (generated when empty)")
	cmd.Flags().StringVar(&meta.Model, "model", "", "Model name recorded on the run")
	cmd.Flags().StringVar(&meta.SessionID, "session", "", "Session identifier")
	cmd.Flags().StringVar(&meta.UserID, "user", "", "User identifier")
	cmd.Flags().StringSliceVar(&meta.Tags, "tag", nil, "Run tag (repeatable)")
	cmd.Flags().BoolVar(&withSnippet, "snippet", false, "Attach the source around the call site")
	cmd.Flags().IntVar(&snippetContext, "context", 0, "Snippet lines on each side of the call site (implies --snippet)")
	cmd.Flags().BoolVar(&withStack, "stack", false, "Attach the goroutine stack")
	return cmd
}
