package main

import (
	"context"
	"strings"

	"github.com/desertthunder/fithub/internal/stats"
	"github.com/urfave/cli/v3"
)

// Dashboard prints the derived statistics.
func (r *Runner) Dashboard(ctx context.Context, cmd *cli.Command) error {
	st, err := r.openStore(ctx)
	if err != nil {
		return err
	}

	state := st.Snapshot()
	d := stats.Compute(state)
	if cmd.Bool("json") {
		return r.writeJSON(d, true)
	}

	name := "guest"
	if state.LoggedIn() {
		name = state.User.Name
	}

	r.writePlainHeader("FitHub Dashboard: " + name)
	r.writePlain("Calories:      %g kcal (%g g protein)\n", d.TotalCalories, d.TotalProtein)
	r.writePlain("Workouts:      %d (volume %g kg)\n", d.WorkoutCount, d.TotalVolume)
	r.writePlain("Goals:         %d (%d%% average progress)\n", d.GoalCount, int(d.GoalProgress*100))
	r.writePlain("Streak:        %d days\n", d.Streak)

	r.writePlainln("Weekly activity")
	for _, day := range d.Weekly {
		r.writePlain("%s %-10s %d workouts, %g kcal\n", day.Day, strings.Repeat("#", min(day.Workouts, 10)), day.Workouts, day.Calories)
	}
	if busiest, ok := d.Busiest(); ok {
		r.writePlain("Busiest day: %s\n", busiest.Day)
	}
	return nil
}
