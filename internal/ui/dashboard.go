// Package ui renders the live dashboard for the stress command.
package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"
)

// Event is one progress snapshot from a running stress scenario.
type Event struct {
	Emitted    uint64 // warnings pushed at the sink so far
	Admitted   uint64 // warnings the sink printed
	Suppressed uint64 // warnings the rate limiter swallowed
	Windows    uint64 // rate windows opened
	Message    string // latest admitted warning text
}

const initialWidth = 80

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	spinnerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	admitStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	suppressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	windowStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

type eventMsg Event
type doneMsg struct{}

type dashboardModel struct {
	title   string
	total   uint64
	events  <-chan Event
	spinner spinner.Model
	bar     progress.Model
	last    Event
	message string
	width   int
	done    bool
}

// NewDashboard returns a Bubble Tea model that renders stress progress.
// The model quits when the event channel closes.
func NewDashboard(title string, total uint64, events <-chan Event) tea.Model {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = initialWidth - 4
	return &dashboardModel{
		title:   title,
		total:   total,
		events:  events,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
		bar:     bar,
		width:   initialWidth,
	}
}

// waitEvent blocks on the scenario channel and converts the delivery
// into a message. A closed channel ends the program.
func waitEvent(events <-chan Event) tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-events; ok {
			return eventMsg(ev)
		}
		return doneMsg{}
	}
}

func (m *dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitEvent(m.events))
}

func (m *dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.record(Event(msg)), waitEvent(m.events))
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.resize(msg.Width)
		return m, nil
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case progress.FrameMsg:
		next, cmd := m.bar.Update(msg)
		m.bar = next.(progress.Model)
		return m, cmd
	default:
		return m, nil
	}
}

// record folds a scenario snapshot into the model and animates the bar
// toward the new completion ratio.
func (m *dashboardModel) record(ev Event) tea.Cmd {
	m.last = ev
	if ev.Message != "" {
		m.message = normalizeMessage(ev.Message)
	}
	if m.total == 0 {
		return nil
	}
	return m.bar.SetPercent(min(float64(ev.Emitted)/float64(m.total), 1.0))
}

func (m *dashboardModel) resize(width int) {
	if width <= 0 {
		return
	}
	m.width = width
	m.bar.Width = width - 4
}

func (m *dashboardModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.header()))
	b.WriteString("\n\n")
	b.WriteString(m.counterLine())
	b.WriteString("\n")
	if m.message != "" {
		fmt.Fprintf(&b, "  last: %s\n", clip(m.message, max(m.width-10, 20)))
	}
	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1.0))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *dashboardModel) header() string {
	if m.done {
		return "done: " + m.title
	}
	return m.spinner.View() + " " + m.title
}

func (m *dashboardModel) counterLine() string {
	return fmt.Sprintf("  admitted %s   suppressed %s   windows %s",
		admitStyle.Render(strconv.FormatUint(m.last.Admitted, 10)),
		suppressStyle.Render(strconv.FormatUint(m.last.Suppressed, 10)),
		windowStyle.Render(strconv.FormatUint(m.last.Windows, 10)))
}

// normalizeMessage flattens a warning to one NFC-normalized display line.
// Width math below assumes composed forms.
func normalizeMessage(s string) string {
	s = norm.NFC.String(s)
	return strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', '\t':
			return ' '
		}
		return r
	}, s)
}

// clip shortens value to at most width terminal cells, marking cut
// text with an ellipsis when there is room for one.
func clip(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	tail := "..."
	if width <= len(tail) {
		tail = ""
	}
	return runewidth.Truncate(value, width, tail)
}
