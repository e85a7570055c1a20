package main

import (
	"context"
	"fmt"

	"github.com/russellkim98/RKADE-sync/internal/shared"
	"github.com/russellkim98/RKADE-sync/internal/tasks"
	"github.com/urfave/cli/v3"
)

// SyncRun runs a full Spotify → local library sync for one playlist, or for
// every playlist matching the configured filter with --all.
func (r *Runner) SyncRun(ctx context.Context, cmd *cli.Command) error {
	playlist := cmd.StringArg("playlist")
	all := cmd.Bool("all")
	dryRun := cmd.Bool("dry-run")

	if playlist == "" && !all {
		return fmt.Errorf("%w: playlist name or ID required (or --all)", shared.ErrMissingArgument)
	}

	if err := r.ensureEngine(); err != nil {
		return err
	}

	var targets []string
	if all {
		playlists, err := r.fetchPlaylists(ctx, r.config.Library.PlaylistFilter)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
		for _, p := range playlists {
			targets = append(targets, p.ID)
		}
		if len(targets) == 0 {
			return fmt.Errorf("%w: no playlists match filter %q", shared.ErrPlaylistNotFound, r.config.Library.PlaylistFilter)
		}
	} else {
		targets = []string{playlist}
	}

	if dryRun {
		for _, target := range targets {
			if err := r.printDiff(ctx, target, false); err != nil {
				return err
			}
		}
		return nil
	}

	for _, target := range targets {
		if err := r.syncOne(ctx, target); err != nil {
			return err
		}
	}
	return nil
}

// syncOne runs the engine for a single playlist and prints progress and a summary.
func (r *Runner) syncOne(ctx context.Context, playlist string) error {
	r.logger.Info("starting sync", "playlist", playlist)
	r.writePlain("Starting playlist sync...\n")
	r.writePlain("Playlist: %s\n\n", playlist)

	// Create progress channel and goroutine to handle updates
	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchSource:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.SearchCandidates:
				if update.Step == 0 {
					r.writePlain("\n🔍 %s\n", update.Message)
				} else {
					r.writePlain("   [%d/%d] %s\n", update.Step, update.Total, update.Message)
				}
			case tasks.DownloadTrack:
				r.writePlain("   ⬇ %s\n", update.Message)
			case tasks.TranscodeTrack:
				r.writePlain("   🎛 %s\n", update.Message)
			case tasks.SkipTrack:
				r.writePlain("   ⏭ %s\n", update.Message)
			case tasks.ArchiveTrack:
				r.writePlain("   ✓ %s\n", update.Message)
			}
		}
	}()

	// Run the engine operation
	result, err := r.engine.Run(ctx, progressCh, playlist)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	// Output summary
	r.writePlain("\n")
	r.writePlainHeader("Sync Complete!")
	r.writePlain("Playlist: %s (%d tracks)\n", result.Playlist.Playlist.Name, len(result.Playlist.Tracks))
	r.writePlain("Downloaded: %d\n", result.Downloaded)
	r.writePlain("Skipped (already archived): %d\n", result.Skipped)
	r.writePlain("Failed: %d\n", result.Failed)

	if result.Failed > 0 {
		r.writePlain("\nFailed tracks:\n")
		for _, tr := range result.Results {
			if tr.Error != nil {
				r.writePlain("  - %s - %s: %v\n", tr.Track.Artist, tr.Track.Title, tr.Error)
			}
		}
	}

	return nil
}

// SyncDiff compares a playlist against the archive without downloading anything.
func (r *Runner) SyncDiff(ctx context.Context, cmd *cli.Command) error {
	playlist := cmd.StringArg("playlist")
	useJSON := cmd.Bool("json")

	if playlist == "" {
		return fmt.Errorf("%w: playlist name or ID required", shared.ErrMissingArgument)
	}

	if err := r.ensureEngine(); err != nil {
		return err
	}

	return r.printDiff(ctx, playlist, useJSON)
}

// printDiff runs the engine's archive comparison and prints the result.
func (r *Runner) printDiff(ctx context.Context, playlist string, useJSON bool) error {
	r.logger.Info("sync diff requested", "playlist", playlist)
	r.writePlain("Comparing playlist against archive...\n\n")

	progressCh := make(chan tasks.ProgressUpdate, 10)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.writePlain("📥 %s\n", update.Message)
		}
	}()

	result, err := r.engine.Diff(ctx, progressCh, playlist)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(map[string]any{
			"playlist": result.Playlist.Playlist.Name,
			"total":    len(result.Playlist.Tracks),
			"archived": len(result.Archived),
			"missing":  result.Missing,
		}, true)
	}

	r.writePlain("\n")
	r.writePlainHeader("Comparison Results")
	r.writePlain("Playlist: %s (%d tracks)\n", result.Playlist.Playlist.Name, len(result.Playlist.Tracks))
	r.writePlain("Archived: %d tracks\n", len(result.Archived))
	r.writePlain("Missing: %d tracks\n\n", len(result.Missing))

	if len(result.Missing) > 0 {
		r.writePlain("Tracks a sync run would download:\n")
		for i, track := range result.Missing {
			r.writePlain("  %d. %s - %s", i+1, track.Artist, track.Title)
			if track.Album != "" {
				r.writePlain(" (%s)", track.Album)
			}
			r.writePlain("\n")
		}
	}

	return nil
}
