package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"
)

// ArchiveList lists archived downloads, optionally filtered by playlist.
func (r *Runner) ArchiveList(ctx context.Context, cmd *cli.Command) error {
	playlist := cmd.String("playlist")
	useJSON := cmd.Bool("json")

	if err := r.openDatabase(); err != nil {
		return err
	}

	criteria := map[string]any{}
	if playlist != "" {
		criteria["playlist"] = playlist
	}

	downloads, err := r.downloads.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list archive: %w", err)
	}

	if useJSON {
		rows := make([]map[string]any, 0, len(downloads))
		for _, d := range downloads {
			rows = append(rows, map[string]any{
				"sequence":    d.Sequence(),
				"video_id":    d.VideoID(),
				"track_id":    d.TrackID(),
				"title":       d.Title(),
				"artist":      d.Artist(),
				"playlist":    d.Playlist(),
				"clean_path":  d.CleanPath(),
				"duration":    d.Duration(),
				"match_score": d.MatchScore(),
			})
		}
		return r.writeJSON(rows, true)
	}

	if len(downloads) == 0 {
		r.writePlain("Archive is empty\n")
		return nil
	}

	r.writePlain("Archive contains %d downloads:\n\n", len(downloads))
	for _, d := range downloads {
		r.writePlain("%4d. %s - %s\n", d.Sequence(), d.Artist(), d.Title())
		r.writePlain("      Playlist: %s  Video: %s  Score: %.1f\n", d.Playlist(), d.VideoID(), d.MatchScore())
		if d.CleanPath() != "" {
			r.writePlain("      %s\n", d.CleanPath())
		}
	}

	return nil
}

// ArchivePrune soft-deletes archive entries whose transcoded file no longer
// exists on disk, so the next sync run downloads them again.
func (r *Runner) ArchivePrune(ctx context.Context, cmd *cli.Command) error {
	playlist := cmd.String("playlist")
	dryRun := cmd.Bool("dry-run")

	if err := r.openDatabase(); err != nil {
		return err
	}

	criteria := map[string]any{}
	if playlist != "" {
		criteria["playlist"] = playlist
	}

	downloads, err := r.downloads.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list archive: %w", err)
	}

	pruned := 0
	for _, d := range downloads {
		if d.CleanPath() == "" {
			continue
		}
		if _, err := os.Stat(d.CleanPath()); err == nil {
			continue
		}

		if dryRun {
			r.writePlain("would prune: %s - %s (%s)\n", d.Artist(), d.Title(), d.CleanPath())
			pruned++
			continue
		}

		if err := r.downloads.Delete(d.ID()); err != nil {
			return fmt.Errorf("failed to prune download %s: %w", d.ID(), err)
		}
		r.logger.Info("pruned archive entry", "video_id", d.VideoID(), "title", d.Title())
		r.writePlain("pruned: %s - %s\n", d.Artist(), d.Title())
		pruned++
	}

	if pruned == 0 {
		r.writePlain("Nothing to prune: all archived files present\n")
	} else if dryRun {
		r.writePlain("\n%d entries would be pruned\n", pruned)
	} else {
		r.writePlain("\n✓ Pruned %d entries\n", pruned)
	}

	return nil
}

// ArchiveRuns lists sync run history, newest first.
func (r *Runner) ArchiveRuns(ctx context.Context, cmd *cli.Command) error {
	playlist := cmd.String("playlist")

	if err := r.openDatabase(); err != nil {
		return err
	}

	criteria := map[string]any{}
	if playlist != "" {
		criteria["playlist"] = playlist
	}

	runs, err := r.runs.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		r.writePlain("No sync runs recorded\n")
		return nil
	}

	r.writePlain("%d sync runs:\n\n", len(runs))
	for _, run := range runs {
		started := "-"
		if run.StartedAt() != nil {
			started = run.StartedAt().Format(time.RFC3339)
		}
		r.writePlain("%4d. %s  [%s]  %s\n", run.Sequence(), run.Playlist(), run.Status(), started)
		r.writePlain("      Downloaded: %d  Skipped: %d  Failed: %d of %d\n",
			run.Downloaded(), run.Skipped(), run.Failed(), run.TotalTracks())
		if run.Error() != "" {
			r.writePlain("      Error: %s\n", run.Error())
		}
	}

	return nil
}

// ArchiveWriteFile exports the archive as a yt-dlp --download-archive file.
func (r *Runner) ArchiveWriteFile(ctx context.Context, cmd *cli.Command) error {
	output := cmd.String("output")

	if err := r.openDatabase(); err != nil {
		return err
	}

	if err := r.archive.WriteArchiveFile(output); err != nil {
		return err
	}

	r.logger.Info("archive file written", "path", output)
	r.writePlain("✓ Archive file written to %s\n", output)
	return nil
}
