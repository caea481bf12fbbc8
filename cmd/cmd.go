// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/fithub/internal/models"
	"github.com/urfave/cli/v3"
)

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Output raw JSON",
	}
}

// videoFlags override the [video] config section for one run.
func videoFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "prompt",
			Aliases: []string{"p"},
			Usage:   "Video prompt",
		},
		&cli.StringFlag{
			Name:  "resolution",
			Usage: "Output resolution (720p or 1080p)",
		},
		&cli.StringFlag{
			Name:  "aspect",
			Usage: "Aspect ratio (16:9 or 9:16)",
		},
	}
}

// setupCommand handles setup operations for the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create config if missing, initialize database, and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Revert the most recent database migration",
				Action: r.SetupRollback,
			},
		},
	}
}

// loginCommand stores a stub profile.
func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Sign in with a local profile",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "name",
				Usage: "Display name",
			},
			&cli.StringFlag{
				Name:  "email",
				Usage: "Email address",
			},
		},
		Action: r.Login,
	}
}

func logoutCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Clear the local profile",
		Action: r.Logout,
	}
}

func whoamiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "whoami",
		Usage:  "Show the local profile",
		Flags:  []cli.Flag{jsonFlag()},
		Action: r.WhoAmI,
	}
}

// entryCommands builds the list and rm subcommands shared by every collection.
func entryCommands(r *Runner, kind models.Collection) []*cli.Command {
	return []*cli.Command{
		{
			Name:    "list",
			Aliases: []string{"ls"},
			Usage:   "List " + kind.String() + ", newest first",
			Flags:   []cli.Flag{jsonFlag()},
			Action:  r.EntryList(kind),
		},
		{
			Name:    "rm",
			Aliases: []string{"remove", "delete"},
			Usage:   "Remove an entry by id",
			Arguments: []cli.Argument{
				&cli.StringArg{Name: "id"},
			},
			Action: r.EntryRemove(kind),
		},
	}
}

// workoutCommand handles workout logging
func workoutCommand(r *Runner) *cli.Command {
	add := &cli.Command{
		Name:  "add",
		Usage: "Log a workout",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "Exercise name",
			},
			&cli.IntFlag{
				Name:    "reps",
				Aliases: []string{"r"},
				Usage:   "Repetitions",
			},
			&cli.FloatFlag{
				Name:    "weight",
				Aliases: []string{"w"},
				Usage:   "Weight in kg",
			},
		},
		Action: r.WorkoutAdd,
	}

	return &cli.Command{
		Name:     "workout",
		Aliases:  []string{"workouts", "w"},
		Usage:    "Log and review workouts",
		Commands: append([]*cli.Command{add}, entryCommands(r, models.Workouts)...),
	}
}

// foodCommand handles nutrition logging
func foodCommand(r *Runner) *cli.Command {
	add := &cli.Command{
		Name:  "add",
		Usage: "Log a meal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "Food name",
			},
			&cli.FloatFlag{
				Name:  "calories",
				Usage: "Calories (kcal)",
			},
			&cli.FloatFlag{
				Name:  "protein",
				Usage: "Protein (g)",
			},
		},
		Action: r.FoodAdd,
	}

	return &cli.Command{
		Name:     "food",
		Aliases:  []string{"foods", "nutrition"},
		Usage:    "Log and review meals",
		Commands: append([]*cli.Command{add}, entryCommands(r, models.Foods)...),
	}
}

// goalCommand handles goal tracking
func goalCommand(r *Runner) *cli.Command {
	add := &cli.Command{
		Name:  "add",
		Usage: "Create a goal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "Goal name",
			},
			&cli.FloatFlag{
				Name:  "target",
				Usage: "Target value",
			},
			&cli.FloatFlag{
				Name:  "current",
				Usage: "Current value",
			},
			&cli.StringFlag{
				Name:  "unit",
				Usage: "Unit of measure",
			},
		},
		Action: r.GoalAdd,
	}

	return &cli.Command{
		Name:     "goal",
		Aliases:  []string{"goals"},
		Usage:    "Create and review goals",
		Commands: append([]*cli.Command{add}, entryCommands(r, models.Goals)...),
	}
}

func dashboardCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "dashboard",
		Aliases: []string{"stats"},
		Usage:   "Show calories, workouts, goal progress, and weekly activity",
		Flags:   []cli.Flag{jsonFlag()},
		Action:  r.Dashboard,
	}
}

func coachCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "coach",
		Usage:  "Ask the AI coach for advice on your recent activity",
		Action: r.Coach,
	}
}

// motivationCommand handles video generation and history
func motivationCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "motivation",
		Usage: "Generate motivational videos",
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "Generate a video and save it locally",
				Flags: append(videoFlags(),
					&cli.StringFlag{
						Name:    "output-dir",
						Aliases: []string{"o"},
						Usage:   "Directory for the video file",
					},
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open the video when ready",
					},
				),
				Action: r.MotivationGenerate,
			},
			{
				Name:  "history",
				Usage: "List generated videos",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of videos to list",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "clear",
						Usage: "Clear the history instead of listing it",
					},
					jsonFlag(),
				},
				Action: r.MotivationHistory,
			},
			{
				Name:  "open",
				Usage: "Open a generated video by id",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.MotivationOpen,
			},
			{
				Name:  "rm",
				Usage: "Remove a video from the history",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.MotivationRemove,
			},
		},
	}
}

// settingsCommand handles export, purge, and theme
func settingsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Export, purge, and theme settings",
		Commands: []*cli.Command{
			{
				Name:  "export",
				Usage: "Export all data (Export Bio-Data)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (json, csv, markdown)",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: fithub-export-<timestamp>.<ext>)",
					},
					&cli.BoolFlag{
						Name:  "stdout",
						Usage: "Write to standard output instead of a file",
					},
				},
				Action: r.SettingsExport,
			},
			{
				Name:  "purge",
				Usage: "Delete all stored data",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Skip the confirmation prompt",
					},
				},
				Action: r.SettingsPurge,
			},
			{
				Name:  "theme",
				Usage: "Show or set the theme (dark, light, toggle)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "mode"},
				},
				Action: r.SettingsTheme,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive FitHub app",
		Flags: append(videoFlags(),
			&cli.StringFlag{
				Name:  "export-dir",
				Usage: "Directory for exports made from the settings page",
				Value: ".",
			},
		),
		Action: r.TUI,
	}
}
