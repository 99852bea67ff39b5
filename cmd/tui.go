package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/solotter/internal/formatter"
	"github.com/desertthunder/solotter/internal/shared"
	"github.com/desertthunder/solotter/internal/ui"
)

// TUI launches the interactive terminal UI for browsing and exporting groups.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/solotter-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	engine, err := r.engine(ctx, true)
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, engine, ui.Options{
		Handle:    cmd.String("handle"),
		OutputDir: cmd.String("output"),
		Format:    format,
		Logger:    fileLogger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
