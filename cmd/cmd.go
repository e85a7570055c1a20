// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles database and config file initialization.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize config file, database and migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// authCommand handles Spotify OAuth operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authenticate with Spotify using OAuth2",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SpotifyAuth,
			},
			{
				Name:   "status",
				Usage:  "Check current authentication state",
				Action: r.AuthStatus,
			},
		},
	}
}

// spotifyCommand handles Spotify playlist operations
func spotifyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "spotify",
		Aliases: []string{"spot"},
		Usage:   "Spotify playlist operations",
		Commands: []*cli.Command{
			{
				Name:  "playlists",
				Usage: "List Spotify playlists",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.StringFlag{
						Name:  "filter",
						Usage: "Only show playlists whose name contains this substring (defaults to library.playlist_filter)",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Ignore the configured playlist filter",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of playlists to return",
						Value: 50,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Save API response locally",
					},
				},
				Action: r.SpotifyPlaylists,
			},
			{
				Name:  "export",
				Usage: "Export playlist JSON for debugging",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Playlist ID to export",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Save API response locally",
					},
				},
				Action: r.SpotifyExport,
			},
		},
	}
}

// ytmusicCommand handles YouTube Music lookups via yt-dlp
func ytmusicCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "ytmusic",
		Aliases: []string{"ytm", "yt"},
		Usage:   "YouTube Music operations",
		Commands: []*cli.Command{
			{
				Name:  "search",
				Usage: "Search YouTube Music for a track",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "query",
					},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of candidates to return",
						Value: 5,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.YTMusicSearch,
			},
			{
				Name:  "playlist",
				Usage: "List entries of a pinned YouTube Music playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "name",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.YTMusicPlaylist,
			},
		},
	}
}

// syncCommand handles the Spotify → local library sync pipeline
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Sync Spotify playlists into the local library",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run a full sync: search, match, download, transcode, archive",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "playlist",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Sync every playlist matching the configured filter",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Show what would be downloaded without downloading",
					},
				},
				Action: r.SyncRun,
			},
			{
				Name:  "diff",
				Usage: "Show which playlist tracks are missing from the archive",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "playlist",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SyncDiff,
			},
		},
	}
}

// exportCommand handles bulk playlist exports to files
func exportCommand(r *Runner) *cli.Command {
	workers := r.config.Downloader.Workers
	if workers <= 0 {
		workers = 4
	}
	rateLimit := r.config.Downloader.RateLimit
	if rateLimit <= 0 {
		rateLimit = 2.0
	}

	return &cli.Command{
		Name:      "export",
		Usage:     "Bulk export playlists to JSON, CSV, Markdown or text",
		ArgsUsage: "[playlist-id ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: json, csv, markdown, txt",
				Value:   "json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (default: spotify_export_{timestamp})",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent export workers (max 10)",
				Value: workers,
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "API requests per second",
				Value: rateLimit,
			},
		},
		Action: r.BulkExport,
	}
}

// archiveCommand inspects and maintains the download archive
func archiveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "archive",
		Usage: "Inspect the download archive",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List archived downloads",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "playlist",
						Usage: "Only show downloads from this playlist",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ArchiveList,
			},
			{
				Name:  "prune",
				Usage: "Drop archive entries whose transcoded file is missing on disk",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "playlist",
						Usage: "Only prune downloads from this playlist",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "List what would be pruned without deleting",
					},
				},
				Action: r.ArchivePrune,
			},
			{
				Name:  "runs",
				Usage: "List sync run history",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "playlist",
						Usage: "Only show runs for this playlist",
					},
				},
				Action: r.ArchiveRuns,
			},
			{
				Name:  "write-file",
				Usage: "Write a yt-dlp --download-archive file from the database",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Archive file path",
						Value:   "archive.txt",
					},
				},
				Action: r.ArchiveWriteFile,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive playlist sync.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for playlist sync",
		Action:  r.TUI,
	}
}
