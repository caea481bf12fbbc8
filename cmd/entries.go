package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/fithub/internal/models"
	"github.com/desertthunder/fithub/internal/shared"
	"github.com/urfave/cli/v3"
)

// WorkoutAdd logs a workout. Entries without a name or reps are skipped, not rejected.
func (r *Runner) WorkoutAdd(ctx context.Context, cmd *cli.Command) error {
	w, ok := models.NewWorkout(cmd.String("name"), cmd.Int("reps"), cmd.Float("weight"), r.now())
	if !ok {
		r.logger.Debug("skipping workout without name or reps")
		r.writePlain("Nothing logged: a workout needs a name and reps\n")
		return nil
	}
	return r.addEntry(ctx, models.AddItem(models.WorkoutList, w), models.Workouts, w.ID, w.Name)
}

// FoodAdd logs a meal. Entries without a name are skipped.
func (r *Runner) FoodAdd(ctx context.Context, cmd *cli.Command) error {
	f, ok := models.NewFood(cmd.String("name"), cmd.Float("calories"), cmd.Float("protein"), r.now())
	if !ok {
		r.writePlain("Nothing logged: a meal needs a name\n")
		return nil
	}
	return r.addEntry(ctx, models.AddItem(models.FoodList, f), models.Foods, f.ID, f.Name)
}

// GoalAdd creates a goal. Entries without a name are skipped.
func (r *Runner) GoalAdd(ctx context.Context, cmd *cli.Command) error {
	g, ok := models.NewGoal(cmd.String("name"), cmd.Float("target"), cmd.Float("current"), cmd.String("unit"))
	if !ok {
		r.writePlain("Nothing logged: a goal needs a name\n")
		return nil
	}
	return r.addEntry(ctx, models.AddItem(models.GoalList, g), models.Goals, g.ID, g.Name)
}

func (r *Runner) addEntry(ctx context.Context, t models.Transform, kind models.Collection, id, name string) error {
	st, err := r.openStore(ctx)
	if err != nil {
		return err
	}

	if _, err := st.Mutate(ctx, t); err != nil {
		return fmt.Errorf("failed to save %s: %w", kind, err)
	}

	r.logger.Debug("entry added", "collection", kind, "id", id)
	r.writePlain("✓ Added %s (%s)\n", name, id)
	return nil
}

// EntryList prints one collection, newest first.
func (r *Runner) EntryList(kind models.Collection) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		st, err := r.openStore(ctx)
		if err != nil {
			return err
		}
		state := st.Snapshot()

		if cmd.Bool("json") {
			switch kind {
			case models.Workouts:
				return r.writeJSON(state.Workouts, true)
			case models.Foods:
				return r.writeJSON(state.Foods, true)
			default:
				return r.writeJSON(state.Goals, true)
			}
		}

		r.writePlainHeader(strings.ToUpper(kind.String()))
		lines := entryLines(state, kind)
		if len(lines) == 0 {
			r.writePlain("No %s yet\n", kind)
			return nil
		}
		for _, line := range lines {
			r.writePlain("%s\n", line)
		}
		return nil
	}
}

func entryLines(state models.AppState, kind models.Collection) []string {
	var lines []string
	switch kind {
	case models.Workouts:
		for _, w := range state.Workouts {
			lines = append(lines, fmt.Sprintf("%s  %s: %d reps @ %gkg  %s", w.ID, w.Name, w.Reps, w.Weight, w.Date))
		}
	case models.Foods:
		for _, f := range state.Foods {
			lines = append(lines, fmt.Sprintf("%s  %s: %g kcal, %gg protein  %s", f.ID, f.Name, f.Calories, f.Protein, f.Date))
		}
	case models.Goals:
		for _, g := range state.Goals {
			lines = append(lines, fmt.Sprintf("%s  %s: %g/%g %s (%d%%)", g.ID, g.Name, g.Current, g.Target, g.Unit, int(g.Progress()*100)))
		}
	}
	return lines
}

// EntryRemove deletes an entry by id. An unknown id changes nothing.
func (r *Runner) EntryRemove(kind models.Collection) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		id := cmd.StringArg("id")
		if id == "" {
			return fmt.Errorf("%w: id", shared.ErrMissingArgument)
		}

		st, err := r.openStore(ctx)
		if err != nil {
			return err
		}

		before := st.Snapshot()
		after, err := st.Mutate(ctx, models.RemoveByCollection(kind, id))
		if err != nil {
			return fmt.Errorf("failed to save %s: %w", kind, err)
		}

		if len(entryLines(after, kind)) == len(entryLines(before, kind)) {
			r.writePlain("No %s entry with id %s\n", kind, id)
			return nil
		}
		r.writePlain("✓ Removed %s\n", id)
		return nil
	}
}
