// Package tui renders the live status feed with bubbletea.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/spicewatch/internal/model"
)

// DefaultMaxEvents bounds how many events the feed keeps.
const DefaultMaxEvents = 200

// Model is the live feed.
type Model struct {
	events    <-chan model.StatusEvent
	feed      []model.StatusEvent
	keys      KeyMap
	help      help.Model
	theme     Theme
	spinner   spinner.Model
	title     string
	maxEvents int
	width     int
	height    int
	processed int
	failed    int
	closed    bool
	paused    bool
	showDebug bool
	showHelp  bool
}

// NewModel creates a feed reading from events.
func NewModel(events <-chan model.StatusEvent, title string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = DefaultTheme.Title

	return Model{
		events:    events,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		theme:     DefaultTheme,
		spinner:   s,
		title:     title,
		maxEvents: DefaultMaxEvents,
	}
}

// Init returns initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForEvent(m.events))
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusEventMsg:
		m.record(msg.event)
		return m, waitForEvent(m.events)

	case feedClosedMsg:
		m.closed = true
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
		case key.Matches(msg, m.keys.Clear):
			m.feed = nil
		case key.Matches(msg, m.keys.ToggleDebug):
			m.showDebug = !m.showDebug
		case key.Matches(msg, m.keys.ToggleHelp):
			m.showHelp = !m.showHelp
			m.help.ShowAll = m.showHelp
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case spinner.TickMsg:
		if m.closed {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// record counts every event and appends it to the feed unless paused.
func (m *Model) record(event model.StatusEvent) {
	switch event.Title {
	case model.TitleProcessed:
		m.processed++
	case model.TitleFailed:
		m.failed++
	}

	if m.paused {
		return
	}
	m.feed = append(m.feed, event)
	if len(m.feed) > m.maxEvents {
		m.feed = m.feed[len(m.feed)-m.maxEvents:]
	}
}

// View renders the feed.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.theme.Title.Render(m.title))
	b.WriteString("\n")
	b.WriteString(m.theme.Subtitle.Render(m.statusLine()))
	b.WriteString("\n\n")

	lines := m.visibleLines()
	if len(lines) == 0 {
		b.WriteString(m.theme.Muted.Render("Waiting for notifications..."))
	} else {
		b.WriteString(strings.Join(lines, "\n"))
	}

	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) statusLine() string {
	state := m.spinner.View() + " listening"
	switch {
	case m.closed:
		state = "input closed"
	case m.paused:
		state = "paused"
	}
	return fmt.Sprintf("%s · %d processed · %d failed", state, m.processed, m.failed)
}

func (m Model) visibleLines() []string {
	lines := make([]string, 0, len(m.feed))
	for _, event := range m.feed {
		if event.Title == model.TitleDebug && !m.showDebug {
			continue
		}
		lines = append(lines, m.renderEvent(event))
	}

	// Leave room for the header and help footer.
	if limit := m.height - 6; m.height > 0 && limit > 0 && len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	return lines
}

func (m Model) renderEvent(event model.StatusEvent) string {
	stamp := m.theme.Muted.Render(event.At.Format("15:04:05"))
	text := event.Title + ": " + event.Text

	switch event.Title {
	case model.TitleProcessed:
		text = m.theme.StatusSuccess.Render(text)
	case model.TitleFailed:
		text = m.theme.StatusError.Render(text)
	case model.TitleDebug:
		text = m.theme.Muted.Render(event.Text)
	default:
		text = m.theme.StatusInfo.Render(text)
	}
	return stamp + " " + text
}
