package main

import (
	"context"

	"github.com/desertthunder/fithub/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Coach asks the AI coach for advice on the logged data and prints the Markdown reply.
//
// Provider failures come back as the coach's fixed fallback text, so this only fails on storage errors.
func (r *Runner) Coach(ctx context.Context, cmd *cli.Command) error {
	st, err := r.openStore(ctx)
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 4)
	advice, err := r.advisor().Request(ctx, st.Snapshot(), progress)
	close(progress)
	if err != nil {
		return err
	}

	for update := range progress {
		r.logger.Debug(update.Message, "phase", update.Phase)
	}

	r.writePlainHeader("AI Coach")
	r.writePlain("%s\n", advice)
	return nil
}
