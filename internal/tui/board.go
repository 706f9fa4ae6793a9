package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"lifeforge/internal/engine"
)

func RunBoard(ctx context.Context, svc *engine.Service, characterID string, out io.Writer) error {
	m := newBoardModel(ctx, svc, characterID)
	p := tea.NewProgram(m, tea.WithOutput(out), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
