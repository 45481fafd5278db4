package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"centrefind/internal/scanner"
	"centrefind/internal/search"
	"centrefind/internal/ui"
)

type indexOptions struct {
	plain bool
}

func newIndexCmd() *cobra.Command {
	var opts indexOptions

	cmd := &cobra.Command{
		Use:   "index [targets...]",
		Short: "Rebuild the path index",
		Long: `Walk the given targets and rebuild the path index from scratch.

Targets are directories or drive letters; with no arguments the
targets from the config file are used. The previous index contents
are replaced entirely.

Examples:
  centrefind index /data /srv
  centrefind index C E
  centrefind index`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd.Context(), cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.plain, "plain", false, "Plain text output (no TUI)")

	return cmd
}

func runIndex(ctx context.Context, cmd *cobra.Command, targets []string, opts indexOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if len(targets) == 0 {
		targets = cfg.Index.Targets
	}
	if len(targets) == 0 {
		return fmt.Errorf("no targets given and none configured; run 'centrefind index <dir>' or set index.targets")
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	engine := search.New(st, cfg)

	renderer := ui.NewRenderer(ui.Config{
		Output:     cmd.OutOrStdout(),
		ForcePlain: opts.plain,
		NoColor:    ui.DetectNoColor(),
	})
	if err := renderer.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = renderer.Stop() }()

	// Announce the roots up front, the way the walk will visit them.
	roots, skipped := scanner.NormalizeTargets(targets)
	for _, root := range roots {
		renderer.UpdateProgress(ui.ProgressEvent{Root: root})
	}
	for _, s := range skipped {
		renderer.Warn(ui.WarnEvent{Message: "unusable target: " + s})
	}

	stats, err := engine.Rebuild(ctx, targets, func(ev search.ProgressEvent) {
		renderer.UpdateProgress(ui.ProgressEvent{Indexed: ev.Indexed})
	})
	if err != nil {
		return err
	}

	renderer.Complete(ui.CompletionStats{
		Indexed:  stats.Indexed,
		Roots:    stats.Roots,
		Skipped:  stats.Skipped,
		Duration: stats.Elapsed,
		Database: st.Path(),
	})
	return nil
}
