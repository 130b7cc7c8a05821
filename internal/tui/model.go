package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"pdfpress/internal/optimizer"
)

// Model renders live progress of a directory run. It drains the
// updates channel and quits when the channel closes.
type Model struct {
	updates <-chan optimizer.Progress
	bar     progress.Model
	started time.Time
	width   int

	found      int
	optimized  int
	skipped    int
	failed     int
	repaired   int
	bytesSaved int64

	quitting bool
}

type doneMsg struct{}

type updateMsg optimizer.Progress

func NewModel(updates <-chan optimizer.Progress) Model {
	return Model{
		updates: updates,
		bar:     progress.New(progress.WithDefaultGradient()),
		started: time.Now(),
	}
}

func (m Model) Init() tea.Cmd {
	return listenForUpdates(m.updates)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case updateMsg:
		m.found += msg.FoundDelta
		m.optimized += msg.OptimizedDelta
		m.skipped += msg.SkippedDelta
		m.failed += msg.FailedDelta
		m.repaired += msg.RepairedDelta
		m.bytesSaved += msg.BytesSavedDelta
		return m, listenForUpdates(m.updates)
	case doneMsg:
		m.quitting = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = barWidth(msg.Width)
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	done := m.optimized + m.skipped + m.failed
	ratio := 0.0
	if m.found > 0 {
		ratio = float64(done) / float64(m.found)
		if ratio > 1 {
			ratio = 1
		}
	}

	elapsed := time.Since(m.started).Round(time.Millisecond)

	lines := []string{
		titleStyle.Render("pdfpress"),
		labelStyle.Render(fmt.Sprintf("Files: %d/%d", done, m.found)) +
			dimStyle.Render(fmt.Sprintf("  skipped:%d failed:%d", m.skipped, m.failed)),
		labelStyle.Render(fmt.Sprintf("Repaired: %d", m.repaired)),
		labelStyle.Render(fmt.Sprintf("Bytes saved: %d", m.bytesSaved)),
		dimStyle.Render(fmt.Sprintf("Elapsed: %s", elapsed)),
		m.bar.ViewAs(ratio),
	}

	return strings.Join(lines, "\n")
}

func listenForUpdates(updates <-chan optimizer.Progress) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return doneMsg{}
		}
		return updateMsg(update)
	}
}

func barWidth(termWidth int) int {
	w := termWidth - 10
	if w > 60 {
		w = 60
	}
	if w < 20 {
		w = 20
	}
	return w
}
