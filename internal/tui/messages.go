package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/spicewatch/internal/model"
)

// statusEventMsg carries one event from the pipeline.
type statusEventMsg struct {
	event model.StatusEvent
}

// feedClosedMsg reports that no more events will arrive.
type feedClosedMsg struct{}

// waitForEvent blocks on the next event from events.
func waitForEvent(events <-chan model.StatusEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return feedClosedMsg{}
		}
		return statusEventMsg{event: event}
	}
}
