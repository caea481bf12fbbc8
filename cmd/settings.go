package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/fithub/internal/formatter"
	"github.com/desertthunder/fithub/internal/models"
	"github.com/desertthunder/fithub/internal/shared"
	"github.com/urfave/cli/v3"
)

// SettingsExport writes the whole document to a file ("Export Bio-Data").
func (r *Runner) SettingsExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	st, err := r.openStore(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("stdout") {
		data, err := formatter.Export(st.Snapshot(), format)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	}

	path, err := formatter.WriteExport(st.Snapshot(), format, cmd.String("output"))
	if err != nil {
		return err
	}
	r.writePlain("✓ Exported to %s\n", path)
	return nil
}

// SettingsPurge deletes every stored entry and the profile after confirmation.
func (r *Runner) SettingsPurge(ctx context.Context, cmd *cli.Command) error {
	if !cmd.Bool("yes") && !r.confirm("Delete all data? This cannot be undone. [y/N] ") {
		r.writePlain("Purge cancelled\n")
		return nil
	}

	st, err := r.openStore(ctx)
	if err != nil {
		return err
	}
	if _, err := st.Purge(ctx); err != nil {
		return fmt.Errorf("failed to purge data: %w", err)
	}

	r.writePlain("✓ All data purged\n")
	return nil
}

// SettingsTheme shows or sets the dark-mode flag.
func (r *Runner) SettingsTheme(ctx context.Context, cmd *cli.Command) error {
	st, err := r.openStore(ctx)
	if err != nil {
		return err
	}

	mode := strings.ToLower(cmd.StringArg("mode"))
	var dark bool
	switch mode {
	case "":
		r.writePlain("Theme: %s\n", themeName(st.Snapshot().IsDarkMode))
		return nil
	case "dark":
		dark = true
	case "light":
		dark = false
	case "toggle":
		dark = !st.Snapshot().IsDarkMode
	default:
		return fmt.Errorf("%w: theme must be dark, light, or toggle, got %q", shared.ErrInvalidArgument, mode)
	}

	if _, err := st.Mutate(ctx, models.SetDarkMode(dark)); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	r.writePlain("✓ Theme: %s\n", themeName(dark))
	return nil
}

func themeName(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}

// confirm reads a yes/no answer from the input.
func (r *Runner) confirm(question string) bool {
	r.writePlain("%s", question)
	var answer string
	if _, err := fmt.Fscanln(r.input, &answer); err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
