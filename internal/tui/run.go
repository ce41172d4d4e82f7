package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Zachkp/portfolio-terminal/internal/checkout"
	"github.com/Zachkp/portfolio-terminal/internal/terminal"
)

// Run drives the terminal UI until the user quits or ctx is cancelled.
// Tracker transitions are forwarded to the status line.
func Run(ctx context.Context, interp *terminal.Interpreter, tracker *checkout.Tracker) error {
	p := tea.NewProgram(New(ctx, interp, tracker.Session()), tea.WithAltScreen())

	// Transitions fire from inside Update; Send must not block it.
	tracker.OnChange(func(s checkout.Session) {
		go p.Send(SessionMsg(s))
	})
	defer tracker.OnChange(nil)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			p.Quit()
		case <-done:
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run terminal: %w", err)
	}
	return nil
}
