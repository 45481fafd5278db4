package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"centrefind/internal/config"
)

// statusInfo is the machine-readable status shape.
type statusInfo struct {
	Database    string `json:"database"`
	Exists      bool   `json:"exists"`
	Paths       int    `json:"paths"`
	SizeBytes   int64  `json:"size_bytes"`
	Accelerator string `json:"accelerator"`
}

func newStatusCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show index location, size and health",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context(), cmd, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runStatus(ctx context.Context, cmd *cobra.Command, jsonOutput bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	info, err := collectStatus(ctx, cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Fprintf(out, "Database:    %s\n", info.Database)
	if !info.Exists {
		fmt.Fprintln(out, "No index found. Run 'centrefind index <dir>' to create one.")
		return nil
	}
	fmt.Fprintf(out, "Paths:       %d\n", info.Paths)
	fmt.Fprintf(out, "Size:        %s\n", formatBytes(info.SizeBytes))
	fmt.Fprintf(out, "Accelerator: %s\n", info.Accelerator)
	return nil
}

func collectStatus(ctx context.Context, cfg *config.Config) (*statusInfo, error) {
	info := &statusInfo{Database: cfg.DatabasePath()}

	fi, err := os.Stat(info.Database)
	if os.IsNotExist(err) {
		return info, nil
	}
	if err != nil {
		return nil, err
	}
	info.Exists = true
	info.SizeBytes = fi.Size()

	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = st.Close() }()

	count, err := st.Count(ctx)
	if err != nil {
		return nil, err
	}
	info.Paths = count
	info.Accelerator = string(st.Mode())

	return info, nil
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
