package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"raven/internal/buildpipeline"
)

// progressModel показывает состояние оркестратора и по строке на файл.
type progressModel struct {
	title   string
	events  <-chan buildpipeline.Event
	spinner spinner.Model
	prog    progress.Model
	items   []fileItem
	index   map[string]int
	state   buildpipeline.State
	started bool
	width   int
	done    bool
}

type fileItem struct {
	path    string
	status  buildpipeline.Status
	elapsed time.Duration
}

type eventMsg buildpipeline.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders pipeline progress.
// The model quits once events is closed.
func NewProgressModel(title string, files []string, events <-chan buildpipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76 // Default width

	items := make([]fileItem, 0, len(files))
	index := make(map[string]int, len(files))
	for i, file := range files {
		items = append(items, fileItem{path: file, status: buildpipeline.StatusQueued})
		index[file] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		ev := buildpipeline.Event(msg)
		cmd := m.applyEvent(ev)
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 && !m.started {
		return ""
	}
	header := m.title
	if m.started {
		header = fmt.Sprintf("%s (%s)", header, m.state)
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")).Render(header))
	b.WriteString("\n\n")

	const statusWidth, elapsedWidth = 12, 10
	nameWidth := max(m.width-statusWidth-elapsedWidth-6, 20)
	finished, failed := 0, 0
	for _, item := range m.items {
		label := fmt.Sprintf("%12s", statusLabel(item.status))
		line := fmt.Sprintf("  %s %s", styleStatus(item.status).Render(label), truncate(item.path, nameWidth))
		if item.elapsed > 0 {
			line += fmt.Sprintf("  %.1fms", float64(item.elapsed)/float64(time.Millisecond))
		}
		b.WriteString(line)
		b.WriteString("\n")
		switch item.status {
		case buildpipeline.StatusError:
			failed++
			finished++
		case buildpipeline.StatusDone:
			finished++
		}
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	summary := fmt.Sprintf("%d/%d files", finished, len(m.items))
	if failed > 0 {
		summary += styleStatus(buildpipeline.StatusError).Render(fmt.Sprintf(", %d with errors", failed))
	}
	b.WriteString(summary)
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev buildpipeline.Event) tea.Cmd {
	if ev.File == "" {
		// события всего прогона несут только состояние оркестратора
		m.state, m.started = ev.State, true
		if ev.State.Terminal() {
			return m.prog.SetPercent(1.0)
		}
		return nil
	}
	idx, ok := m.index[ev.File]
	if !ok {
		// файл может появиться позже списка, например при watch
		idx = len(m.items)
		m.index[ev.File] = idx
		m.items = append(m.items, fileItem{path: ev.File})
	}
	m.items[idx].status = ev.Status
	if ev.Elapsed > 0 {
		m.items[idx].elapsed = ev.Elapsed
	}
	return m.prog.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	total := 0.0
	for _, item := range m.items {
		total += progressFromStatus(item.status)
	}
	return total / float64(len(m.items))
}

func progressFromStatus(status buildpipeline.Status) float64 {
	switch status {
	case buildpipeline.StatusWorking:
		return 0.5
	case buildpipeline.StatusDone, buildpipeline.StatusError:
		return 1.0
	default:
		return 0.0
	}
}

func statusLabel(status buildpipeline.Status) string {
	if status == buildpipeline.StatusWorking {
		return "parsing"
	}
	return string(status)
}

func styleStatus(status buildpipeline.Status) lipgloss.Style {
	switch status {
	case buildpipeline.StatusDone:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case buildpipeline.StatusError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case buildpipeline.StatusWorking:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
