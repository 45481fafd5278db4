package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"centrefind/internal/search"
	"centrefind/internal/ui"
)

type searchOptions struct {
	limit  int
	format string // "text", "json"
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the path index",
		Long: `Run a ranked fuzzy search over the path index.

Multi-word queries prefer paths containing every word; typos and
synonyms still find near matches.

Examples:
  centrefind search "minecraft server world"
  centrefind search atluncher
  centrefind search logs -n 50 --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Maximum number of results (default from config)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")

	return cmd
}

func runSearch(ctx context.Context, cmd *cobra.Command, query string, opts searchOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	engine := search.New(st, cfg)

	results, err := engine.Query(ctx, query, opts.limit)
	if err != nil {
		return err
	}

	switch opts.format {
	case "json":
		if results == nil {
			results = []search.Result{}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case "text":
		styles := ui.DefaultStyles()
		if !ui.IsTTY(cmd.OutOrStdout()) || ui.DetectNoColor() {
			styles = ui.NoColorStyles()
		}
		ui.RenderResults(cmd.OutOrStdout(), results, styles)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want text or json)", opts.format)
	}
}
