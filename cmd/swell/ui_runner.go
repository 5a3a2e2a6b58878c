package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"swell/internal/ui"
)

// runWithDashboard runs scenario on its own goroutine while the dashboard
// renders the snapshots it emits. The scenario owns the event stream; the
// channel is closed when it returns, which tells the dashboard to finish.
func runWithDashboard(title string, total uint64, scenario func(emit func(ui.Event)) error) error {
	events := make(chan ui.Event, 256)

	var g errgroup.Group
	g.Go(func() error {
		defer close(events)
		return scenario(func(ev ui.Event) { events <- ev })
	})

	model := ui.NewDashboard(title, total, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	if _, err := program.Run(); err != nil {
		// The dashboard died early; keep draining so the scenario can finish.
		go func() {
			for range events {
			}
		}()
		_ = g.Wait()
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return g.Wait()
}
