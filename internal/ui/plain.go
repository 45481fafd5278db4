package ui

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// PlainRenderer prints line-oriented progress, suitable for pipes
// and CI logs.
type PlainRenderer struct {
	mu       sync.Mutex
	out      io.Writer
	lastTick time.Time
	indexed  int
}

// NewPlainRenderer creates a plain text renderer.
func NewPlainRenderer(cfg Config) *PlainRenderer {
	return &PlainRenderer{out: cfg.Output}
}

// Start implements Renderer.
func (r *PlainRenderer) Start(ctx context.Context) error {
	return nil
}

// UpdateProgress implements Renderer. Root changes print immediately;
// count-only updates are throttled to one line per second.
func (r *PlainRenderer) UpdateProgress(event ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.indexed = event.Indexed

	if event.Root != "" {
		_, _ = fmt.Fprintf(r.out, "[SCAN] %s\n", event.Root)
		return
	}

	if time.Since(r.lastTick) >= time.Second {
		r.lastTick = time.Now()
		_, _ = fmt.Fprintf(r.out, "[INDEX] %d paths\n", event.Indexed)
	}
}

// Warn implements Renderer.
func (r *PlainRenderer) Warn(event WarnEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintf(r.out, "[WARN] %s\n", event.Message)
}

// Complete implements Renderer.
func (r *PlainRenderer) Complete(stats CompletionStats) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintf(r.out, "[BUILD] Indexed %d paths in %s",
		stats.Indexed, stats.Duration.Round(100*time.Millisecond))
	if stats.Database != "" {
		_, _ = fmt.Fprintf(r.out, " -> %s", stats.Database)
	}
	_, _ = fmt.Fprintln(r.out)

	for _, s := range stats.Skipped {
		_, _ = fmt.Fprintf(r.out, "[WARN] skipped target: %s\n", s)
	}
}

// Stop implements Renderer.
func (r *PlainRenderer) Stop() error {
	return nil
}
