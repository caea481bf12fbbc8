package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/fithub/internal/models"
	"github.com/urfave/cli/v3"
)

// Login stores a stub profile. Blank flags fall back to the demo identity.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	st, err := r.openStore(ctx)
	if err != nil {
		return err
	}

	user := models.NewUser(cmd.String("name"), cmd.String("email"))
	if _, err := st.Login(ctx, user); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	r.writePlain("✓ Logged in as %s <%s>\n", user.Name, user.Email)
	return nil
}

// Logout clears the profile and keeps every logged entry.
func (r *Runner) Logout(ctx context.Context, cmd *cli.Command) error {
	st, err := r.openStore(ctx)
	if err != nil {
		return err
	}

	if !st.Snapshot().LoggedIn() {
		r.writePlain("Not logged in\n")
		return nil
	}

	if _, err := st.Logout(ctx); err != nil {
		return fmt.Errorf("failed to clear profile: %w", err)
	}
	r.writePlain("✓ Logged out\n")
	return nil
}

// WhoAmI prints the stored profile.
func (r *Runner) WhoAmI(ctx context.Context, cmd *cli.Command) error {
	st, err := r.openStore(ctx)
	if err != nil {
		return err
	}

	state := st.Snapshot()
	if cmd.Bool("json") {
		return r.writeJSON(state.User, true)
	}
	if !state.LoggedIn() {
		r.writePlain("Not logged in\n")
		return nil
	}

	r.writePlain("%s <%s>\n", state.User.Name, state.User.Email)
	r.writePlain("Avatar: %s\n", state.User.Avatar)
	return nil
}
