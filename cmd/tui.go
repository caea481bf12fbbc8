package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/fithub/internal/services"
	"github.com/desertthunder/fithub/internal/shared"
	"github.com/desertthunder/fithub/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal app.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	config := r.cfg()

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, closer, err := shared.NewFileLogger(config.Log.TUIFile)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)
	r.closers = append(r.closers, closer.Close)

	st, err := r.openStore(ctx)
	if err != nil {
		return err
	}

	// The TUI collects the key in its own masked field rather than reading stdin.
	r.creds = services.NewPromptCredentials(services.CredentialsFromConfig(config.Credentials.Gemini), nil, nil)

	req, err := r.videoRequest(cmd, config.Video)
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, ui.Options{
		Store:     st,
		Advisor:   r.advisor(),
		Video:     r.videoWorkflow(""),
		Keys:      r.creds,
		Request:   req,
		ExportDir: cmd.String("export-dir"),
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
