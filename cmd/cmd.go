// submodule cmd contains command definitions
package main

import (
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/solotter/internal/formatter"
)

// setupCommand handles setup operations for the config file and snapshot database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Create config.toml if missing, initialize the database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
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

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Twitter authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authorize solotter with your Twitter account (OAuth 1.0a) and save the token",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "How long to wait for the browser callback",
						Value: 2 * time.Minute,
					},
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the authorization URL instead of opening a browser",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show the authenticated account (calls account/verify_credentials)",
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Remove the saved access token from the config file",
				Action: r.AuthLogout,
			},
		},
	}
}

// tweetCommand posts a status update.
func tweetCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tweet",
		Usage: "Post a tweet as the authenticated user",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "text"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Tweet,
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json, csv, markdown, txt",
		Value:   string(formatter.FormatJSON),
	}
}

func snapshotFileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "from",
		Usage:    "Snapshot file (JSON array of {userId, screenName, name})",
		Required: true,
	}
}

// groupsCommand handles friends, followers and list operations
func groupsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "groups",
		Aliases: []string{"g"},
		Usage:   "Export, diff and import user groups (@handle/_friends, @handle/_followers, @handle/list-slug)",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List the groups owned by a user",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "handle",
						Usage: "Screen name (default: the authenticated user)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.GroupsList,
			},
			{
				Name:  "export",
				Usage: "Export a group's members",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					formatFlag(),
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: stdout)",
					},
					&cli.BoolFlag{
						Name:  "no-history",
						Usage: "Do not record the export in the snapshot database",
					},
				},
				Action: r.GroupsExport,
			},
			{
				Name:  "diff",
				Usage: "Show what importing a snapshot would change, without changing anything",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					snapshotFileFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.GroupsDiff,
			},
			{
				Name:  "import",
				Usage: "Make a list's members match a snapshot (removals first, then additions)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					snapshotFileFlag(),
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Only show the diff",
					},
					&cli.BoolFlag{
						Name:  "no-history",
						Usage: "Do not save the list's current members before importing",
					},
				},
				Action: r.GroupsImport,
			},
			{
				Name:  "bulk-export",
				Usage: "Export every group owned by a user into a directory",
				Flags: []cli.Flag{
					formatFlag(),
					&cli.StringFlag{
						Name:  "handle",
						Usage: "Screen name (default: the authenticated user)",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory (default: {handle}_export_{epoch})",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent group exports",
						Value: 3,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Group exports started per second",
						Value: 1,
					},
				},
				Action: r.GroupsBulkExport,
			},
		},
	}
}

// snapshotsCommand handles the local snapshot history
func snapshotsCommand(r *Runner) *cli.Command {
	refArg := func() []cli.Argument {
		return []cli.Argument{&cli.StringArg{Name: "ref"}}
	}

	return &cli.Command{
		Name:    "snapshots",
		Aliases: []string{"snap"},
		Usage:   "Browse the snapshot history recorded by export and import",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recorded snapshots",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "group",
						Usage: "Only snapshots of this group path",
					},
					&cli.StringFlag{
						Name:  "kind",
						Usage: "Only snapshots of this kind (export, pre-import)",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of snapshots to return",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SnapshotsList,
			},
			{
				Name:      "show",
				Usage:     "Print a snapshot's members (ref is a sequence number or id)",
				Arguments: refArg(),
				Flags:     []cli.Flag{formatFlag()},
				Action:    r.SnapshotsShow,
			},
			{
				Name:      "delete",
				Usage:     "Delete a snapshot from the history",
				Arguments: refArg(),
				Action:    r.SnapshotsDelete,
			},
			{
				Name:      "restore",
				Usage:     "Import a recorded snapshot back into its list",
				Arguments: refArg(),
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "to",
						Usage: "Target list path (default: the snapshot's own group)",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Only show the diff",
					},
				},
				Action: r.SnapshotsRestore,
			},
		},
	}
}

// apiCommand handles direct Twitter API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct Twitter API calls",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "GET any v1.1 endpoint (e.g. lists/show), prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "endpoint"},
				},
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "param",
						Aliases: []string{"p"},
						Usage:   "Query parameter as key=value (repeatable)",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive group backups.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for browsing and exporting groups",
		Flags: []cli.Flag{
			formatFlag(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Directory for exported snapshots",
				Value:   ".",
			},
			&cli.StringFlag{
				Name:  "handle",
				Usage: "Screen name (default: the authenticated user)",
			},
		},
		Action: r.TUI,
	}
}
