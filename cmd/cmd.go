// submodule cmd contains command definitions
package main

import (
	"github.com/urfave/cli/v3"
)

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}
}

func offlineFlag() cli.Flag {
	return &cli.BoolFlag{Name: "offline", Usage: "Skip the backend and use cached or built-in exercises"}
}

func idArg() cli.Argument {
	return &cli.StringArg{Name: "id"}
}

// setupCommand initializes local state
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and database",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create the database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write a config.toml populated with defaults",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path of the config file to create",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:   "status",
				Usage:  "Show applied and pending migrations",
				Action: r.SetupStatus,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent migration",
				Action: r.SetupRollback,
			},
		},
	}
}

// exercisesCommand handles the breathing exercise catalogue
func exercisesCommand(r *Runner) *cli.Command {
	definitionFlags := func(required bool) []cli.Flag {
		return []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Exercise name", Required: required},
			&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Exercise description"},
			&cli.IntFlag{Name: "inhale", Usage: "Inhale seconds (≥ 1)", Required: required},
			&cli.IntFlag{Name: "hold", Usage: "Hold seconds (0 skips the hold)"},
			&cli.IntFlag{Name: "exhale", Usage: "Exhale seconds (≥ 1)", Required: required},
		}
	}

	return &cli.Command{
		Name:    "exercises",
		Aliases: []string{"ex"},
		Usage:   "Breathing exercise catalogue",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List exercises (backend, then cache, then built-in)",
				Flags:  []cli.Flag{jsonFlag(), offlineFlag()},
				Action: r.ExercisesList,
			},
			{
				Name:      "show",
				Usage:     "Show one exercise with its benefits",
				Arguments: []cli.Argument{idArg()},
				Flags:     []cli.Flag{jsonFlag(), offlineFlag()},
				Action:    r.ExercisesShow,
			},
			{
				Name:   "create",
				Usage:  "Create an exercise (admin)",
				Flags:  definitionFlags(true),
				Action: r.ExercisesCreate,
			},
			{
				Name:      "update",
				Usage:     "Update an exercise (admin)",
				Arguments: []cli.Argument{idArg()},
				Flags:     definitionFlags(false),
				Action:    r.ExercisesUpdate,
			},
			{
				Name:      "delete",
				Usage:     "Delete an exercise (admin)",
				Arguments: []cli.Argument{idArg()},
				Action:    r.ExercisesDelete,
			},
		},
	}
}

// breatheCommand runs the headless breathing driver
func breatheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "breathe",
		Usage:     "Follow a breathing exercise in the terminal",
		Arguments: []cli.Argument{idArg()},
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "cycles", Aliases: []string{"c"}, Usage: "Stop after this many completed cycles (default from config)"},
			&cli.DurationFlag{Name: "duration", Usage: "Stop after this much practised time, e.g. 5m"},
			&cli.BoolFlag{Name: "serve", Usage: "Publish the live state over HTTP on --addr"},
			&cli.StringFlag{Name: "addr", Usage: "Listen address for --serve", Value: r.config.Server.Addr()},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "Only print the summary"},
			&cli.BoolFlag{Name: "interactive", Aliases: []string{"i"}, Usage: "Read p/c/r/s commands from stdin"},
			&cli.BoolFlag{Name: "no-record", Usage: "Do not save the session to the practice log"},
			offlineFlag(),
		},
		Action: r.Breathe,
	}
}

// meditateCommand runs the headless meditation countdown
func meditateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "meditate",
		Usage: "Run a silent or guided meditation countdown",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "minutes"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "id", Usage: "Guided meditation ID from the backend"},
			&cli.StringSliceFlag{Name: "instruction", Usage: "Instruction to rotate every 30 seconds (repeatable)"},
			&cli.IntFlag{Name: "mood-before", Usage: "Mood before the session (1-10)"},
			&cli.IntFlag{Name: "mood-after", Usage: "Mood after the session (1-10)"},
			&cli.IntFlag{Name: "note", Usage: "Rating of the session (1-5)"},
			&cli.StringFlag{Name: "comment", Usage: "Comment saved with the session"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "Only print the summary"},
		},
		Action: r.Meditate,
	}
}

// meditationsCommand browses guided meditations
func meditationsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "meditations",
		Usage: "Browse guided meditations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List meditations",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "type", Usage: "mindfulness, respiration, body_scan, visualisation or mantra"},
					&cli.StringFlag{Name: "level", Usage: "debutant, intermediaire or avance"},
					&cli.IntFlag{Name: "max-minutes", Usage: "Maximum duration in minutes"},
					&cli.StringSliceFlag{Name: "tag", Usage: "Required tag (repeatable)"},
					jsonFlag(),
				},
				Action: r.MeditationsList,
			},
			{
				Name:      "show",
				Usage:     "Show a meditation and its instructions",
				Arguments: []cli.Argument{idArg()},
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.MeditationsShow,
			},
		},
	}
}

// healthCommand handles health information articles
func healthCommand(r *Runner) *cli.Command {
	articleFlags := func(required bool) []cli.Flag {
		return []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Article title", Required: required},
			&cli.StringFlag{Name: "text", Usage: "Article text", Required: required},
		}
	}

	return &cli.Command{
		Name:  "health",
		Usage: "Health information articles",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List articles",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.HealthList,
			},
			{
				Name:      "show",
				Usage:     "Show an article",
				Arguments: []cli.Argument{idArg()},
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.HealthShow,
			},
			{
				Name:   "create",
				Usage:  "Create an article (admin)",
				Flags:  articleFlags(true),
				Action: r.HealthCreate,
			},
			{
				Name:      "update",
				Usage:     "Update an article (admin)",
				Arguments: []cli.Argument{idArg()},
				Flags:     articleFlags(false),
				Action:    r.HealthUpdate,
			},
			{
				Name:      "delete",
				Usage:     "Delete an article (admin)",
				Arguments: []cli.Argument{idArg()},
				Action:    r.HealthDelete,
			},
		},
	}
}

// profileCommand edits the signed-in account
func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Show and edit your account and meditation preferences",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show your profile",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.ProfileShow,
			},
			{
				Name:  "update",
				Usage: "Change name, email, username or level",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "first-name", Usage: "First name"},
					&cli.StringFlag{Name: "last-name", Usage: "Last name"},
					&cli.StringFlag{Name: "email", Usage: "Email address"},
					&cli.StringFlag{Name: "username", Usage: "Username"},
					&cli.StringFlag{Name: "level", Usage: "Experience level"},
				},
				Action: r.ProfileUpdate,
			},
			{
				Name:  "preferences",
				Usage: "Set meditation preferences",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "duration", Usage: "Preferred session length in minutes (5-120)"},
					&cli.StringFlag{Name: "type", Usage: "mindfulness, respiration, body_scan, visualisation or mantra"},
					&cli.BoolFlag{Name: "notifications", Usage: "Receive notifications"},
					&cli.BoolFlag{Name: "reminders", Usage: "Daily reminders"},
					&cli.StringFlag{Name: "reminder-time", Usage: "Reminder time as HH:MM"},
					jsonFlag(),
				},
				Action: r.ProfilePreferences,
			},
		},
	}
}

// usersCommand manages accounts (admin)
func usersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "Manage accounts (admin)",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List accounts",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.UsersList,
			},
			{
				Name:  "create",
				Usage: "Create an account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "first-name", Usage: "First name", Required: true},
					&cli.StringFlag{Name: "last-name", Usage: "Last name", Required: true},
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email", Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Initial password (prompted when omitted)"},
					&cli.StringFlag{Name: "role", Usage: "utilisateur or admin", Value: "utilisateur"},
				},
				Action: r.UsersCreate,
			},
			{
				Name:      "delete",
				Usage:     "Delete an account without history",
				Arguments: []cli.Argument{idArg()},
				Action:    r.UsersDelete,
			},
		},
	}
}

// authCommand manages the backend session
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Sign in to the meditation backend",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in with email and password",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email", Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Account password (prompted when omitted)"},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create an account and sign in",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email", Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Password, at least 6 characters (prompted when omitted)"},
					&cli.StringFlag{Name: "first-name", Usage: "First name", Required: true},
					&cli.StringFlag{Name: "last-name", Usage: "Last name", Required: true},
					&cli.StringFlag{Name: "username", Usage: "Username (derived from the email when omitted)"},
					&cli.StringFlag{Name: "level", Usage: "debutant, intermediaire or avance"},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Sign out and forget the stored token",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show the signed-in account",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "refresh", Usage: "Reload the profile from the backend"}},
				Action: r.AuthStatus,
			},
		},
	}
}

// historyCommand handles the practice log
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Practice log",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recorded sessions, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum number of sessions", Value: 20},
					&cli.StringFlag{Name: "exercise", Usage: "Only sessions of this exercise ID"},
					&cli.BoolFlag{Name: "unsynced", Usage: "Only sessions not yet sent to the backend"},
					jsonFlag(),
				},
				Action: r.HistoryList,
			},
			{
				Name:   "remote",
				Usage:  "List the executions stored on the backend",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.HistoryRemote,
			},
			{
				Name:   "stats",
				Usage:  "Summarise the practice log",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.HistoryStats,
			},
			{
				Name:  "export",
				Usage: "Export the practice log",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "csv, markdown, txt or json", Value: "markdown"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file path (- for stdout)"},
				},
				Action: r.HistoryExport,
			},
			{
				Name:  "sync",
				Usage: "Send unsynced sessions to the backend",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "workers", Usage: "Concurrent requests", Value: 3},
				},
				Action: r.HistorySync,
			},
			{
				Name:      "delete",
				Usage:     "Delete a recorded session",
				Arguments: []cli.Argument{idArg()},
				Action:    r.HistoryDelete,
			},
		},
	}
}

// tuiCommand launches the interactive interface
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Interactive terminal UI",
		Flags: []cli.Flag{
			offlineFlag(),
			&cli.IntFlag{Name: "meditation-minutes", Usage: "Length of the meditation started with m", Value: 10},
		},
		Action: r.TUI,
	}
}
