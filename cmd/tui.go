package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/souffle/internal/shared"
	"github.com/desertthunder/souffle/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for breathing and meditation.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Practice.LogPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	recorder, err := r.recorder(ctx)
	if err != nil {
		r.logger.Warn("practice log unavailable, sessions will not be saved", "error", err)
	}

	model := ui.NewModel(ctx, ui.Options{
		Catalog:           r.catalog(cmd.Bool("offline")),
		Recorder:          recorder,
		Tick:              r.config.Practice.TickInterval(),
		MeditationMinutes: cmd.Int("meditation-minutes"),
		Logger:            r.logger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return model.Err()
}
