package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/fithub/internal/services"
	"github.com/desertthunder/fithub/internal/shared"
	"github.com/desertthunder/fithub/internal/tasks"
	"github.com/urfave/cli/v3"
)

// MotivationGenerate creates a motivational video and prints its path.
//
// Status messages stream to the output while the job runs. Failures are logged once by the workflow and
// reported here with the generic notice.
func (r *Runner) MotivationGenerate(ctx context.Context, cmd *cli.Command) error {
	config := r.cfg().Video

	req, err := r.videoRequest(cmd, config)
	if err != nil {
		return err
	}

	workflow := r.videoWorkflow(cmd.String("output-dir"))
	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range progress {
			switch update.Phase {
			case tasks.StatusMessage:
				r.writePlain("… %s\n", update.Message)
			case tasks.PollAttempt:
				r.logger.Debug(update.Message)
			}
		}
	}()

	result, err := workflow.Run(ctx, req, progress)
	close(progress)
	<-done

	if err != nil {
		r.writePlain("%s\n", tasks.FailureNotice)
		return err
	}

	r.writePlain("✓ Video ready: %s (%d bytes)\n", result.Path, result.Bytes)
	if cmd.Bool("open") {
		if err := shared.OpenFile(result.Path); err != nil {
			r.logger.Warn("failed to open video", "path", result.Path, "error", err)
		}
	}
	return nil
}

func (r *Runner) videoRequest(cmd *cli.Command, config shared.VideoConfig) (services.VideoRequest, error) {
	prompt := cmd.String("prompt")
	if prompt == "" {
		prompt = config.Prompt
	}
	if prompt == "" {
		prompt = tasks.DefaultVideoPrompt
	}

	resolution := cmd.String("resolution")
	if resolution == "" {
		resolution = config.Resolution
	}
	res, err := services.ParseResolution(resolution)
	if err != nil {
		return services.VideoRequest{}, err
	}

	aspect := cmd.String("aspect")
	if aspect == "" {
		aspect = config.AspectRatio
	}
	ar, err := services.ParseAspectRatio(aspect)
	if err != nil {
		return services.VideoRequest{}, err
	}

	return services.VideoRequest{Prompt: prompt, Resolution: res, AspectRatio: ar}, nil
}

// MotivationHistory lists previously generated videos, newest first.
func (r *Runner) MotivationHistory(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.videoRepository()
	if err != nil {
		return err
	}

	if cmd.Bool("clear") {
		n, err := repo.DeleteAll(ctx)
		if err != nil {
			return err
		}
		r.writePlain("✓ Cleared %d videos from history\n", n)
		return nil
	}

	assets, err := repo.List(ctx, cmd.Int("limit"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(assets, true)
	}

	r.writePlainHeader("Motivation Videos")
	if len(assets) == 0 {
		r.writePlain("No videos yet\n")
		return nil
	}
	for _, a := range assets {
		r.writePlain("%s  %s\n    %s\n", a.CreatedAt.Local().Format("2006-01-02 15:04"), a.Path, a.Prompt)
	}
	return nil
}

// MotivationOpen opens a recorded video with the system player.
func (r *Runner) MotivationOpen(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: id", shared.ErrMissingArgument)
	}

	repo, err := r.videoRepository()
	if err != nil {
		return err
	}

	asset, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}
	return shared.OpenFile(asset.Path)
}

// MotivationRemove drops a video from the history. The file stays on disk.
func (r *Runner) MotivationRemove(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: id", shared.ErrMissingArgument)
	}

	repo, err := r.videoRepository()
	if err != nil {
		return err
	}
	if err := repo.Delete(ctx, id); err != nil {
		return err
	}
	r.writePlain("✓ Removed %s from history\n", id)
	return nil
}
