// Package ui provides terminal output for index rebuilds and search
// results: a bubbletea TUI for interactive terminals and plain text
// for pipes and CI.
package ui

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
)

// ProgressEvent is one rebuild progress update.
type ProgressEvent struct {
	// Root is set when a new scan root starts.
	Root string
	// Indexed is the cumulative number of paths written.
	Indexed int
}

// WarnEvent reports a non-fatal problem during a rebuild, such as a
// skipped target.
type WarnEvent struct {
	Message string
}

// CompletionStats summarizes a finished rebuild for display.
type CompletionStats struct {
	Indexed  int
	Roots    []string
	Skipped  []string
	Duration time.Duration
	Database string
}

// Renderer displays rebuild progress.
type Renderer interface {
	// Start initializes the renderer.
	Start(ctx context.Context) error

	// UpdateProgress displays a progress update.
	UpdateProgress(event ProgressEvent)

	// Warn displays a non-fatal problem.
	Warn(event WarnEvent)

	// Complete displays the final summary.
	Complete(stats CompletionStats)

	// Stop stops the renderer and cleans up.
	Stop() error
}

// Config configures renderer construction.
type Config struct {
	Output     io.Writer
	ForcePlain bool
	NoColor    bool
}

// NewRenderer picks a renderer for the environment: TUI on
// interactive terminals, plain text for pipes and CI.
func NewRenderer(cfg Config) Renderer {
	if cfg.ForcePlain || !IsTTY(cfg.Output) || DetectCI() {
		return NewPlainRenderer(cfg)
	}

	tui, err := NewTUIRenderer(cfg)
	if err != nil {
		return NewPlainRenderer(cfg)
	}
	return tui
}

// IsTTY checks whether the writer is an interactive terminal.
func IsTTY(w io.Writer) bool {
	if w == nil {
		return false
	}
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// DetectNoColor checks the NO_COLOR convention.
func DetectNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}

// DetectCI checks common CI environment markers.
func DetectCI() bool {
	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "TRAVIS"} {
		if _, exists := os.LookupEnv(v); exists {
			return true
		}
	}
	return false
}
