package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/spicewatch/internal/model"
)

// Run shows the live feed until the user quits or ctx ends.
func Run(ctx context.Context, events <-chan model.StatusEvent, title string) error {
	p := tea.NewProgram(
		NewModel(events, title),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("feed view failed: %w", err)
	}
	return nil
}
