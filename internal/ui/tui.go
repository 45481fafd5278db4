package ui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TUIRenderer shows a live spinner view on interactive terminals.
type TUIRenderer struct {
	mu      sync.Mutex
	cfg     Config
	program *tea.Program
	model   *rebuildModel
	started bool
	done    chan struct{}
}

// NewTUIRenderer creates a TUI renderer. Fails when the output is
// not a terminal.
func NewTUIRenderer(cfg Config) (*TUIRenderer, error) {
	if !IsTTY(cfg.Output) {
		return nil, fmt.Errorf("output is not a TTY")
	}

	model := newRebuildModel()
	if cfg.NoColor || DetectNoColor() {
		model.styles = NoColorStyles()
	}

	return &TUIRenderer{
		cfg:   cfg,
		model: model,
		done:  make(chan struct{}),
	}, nil
}

// Start implements Renderer.
func (r *TUIRenderer) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return nil
	}

	var opts []tea.ProgramOption
	if f, ok := r.cfg.Output.(*os.File); ok {
		opts = append(opts, tea.WithOutput(f))
	}

	r.program = tea.NewProgram(r.model, opts...)
	r.started = true

	go func() {
		defer close(r.done)
		_, _ = r.program.Run()
	}()
	return nil
}

// UpdateProgress implements Renderer.
func (r *TUIRenderer) UpdateProgress(event ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.program != nil {
		r.program.Send(progressMsg(event))
	}
}

// Warn implements Renderer.
func (r *TUIRenderer) Warn(event WarnEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.program != nil {
		r.program.Send(warnMsg(event))
	}
}

// Complete implements Renderer.
func (r *TUIRenderer) Complete(stats CompletionStats) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.program != nil {
		r.program.Send(completeMsg(stats))
	}
}

// Stop implements Renderer.
func (r *TUIRenderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.program != nil {
		r.program.Quit()
		select {
		case <-r.done:
		case <-time.After(2 * time.Second):
			r.program.Kill()
		}
	}
	return nil
}

type progressMsg ProgressEvent
type warnMsg WarnEvent
type completeMsg CompletionStats

// rebuildModel is the bubbletea model behind the rebuild view.
type rebuildModel struct {
	styles   Styles
	spinner  spinner.Model
	root     string
	indexed  int
	warnings []string
	stats    *CompletionStats
}

func newRebuildModel() *rebuildModel {
	styles := DefaultStyles()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorLime))

	return &rebuildModel{
		styles:  styles,
		spinner: sp,
	}
}

func (m *rebuildModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *rebuildModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
		return m, nil

	case progressMsg:
		if msg.Root != "" {
			m.root = msg.Root
		}
		m.indexed = msg.Indexed
		return m, nil

	case warnMsg:
		m.warnings = append(m.warnings, msg.Message)
		return m, nil

	case completeMsg:
		stats := CompletionStats(msg)
		m.stats = &stats
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *rebuildModel) View() string {
	var b strings.Builder

	if m.stats != nil {
		b.WriteString(m.styles.Success.Render(
			fmt.Sprintf("Indexed %d paths in %s",
				m.stats.Indexed, m.stats.Duration.Round(100*time.Millisecond))))
		if m.stats.Database != "" {
			b.WriteString(m.styles.Dim.Render(" -> " + m.stats.Database))
		}
		b.WriteString("\n")
	} else {
		b.WriteString(m.spinner.View())
		if m.root != "" {
			b.WriteString(m.styles.Label.Render("scanning "))
			b.WriteString(m.styles.Path.Render(m.root))
			b.WriteString(" ")
		}
		b.WriteString(m.styles.Header.Render(fmt.Sprintf("%d paths", m.indexed)))
		b.WriteString("\n")
	}

	for _, w := range m.warnings {
		b.WriteString(m.styles.Warning.Render("warn: " + w))
		b.WriteString("\n")
	}
	return b.String()
}
