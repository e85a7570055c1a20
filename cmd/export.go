package main

import (
	"context"
	"fmt"

	"github.com/russellkim98/RKADE-sync/internal/services"
	"github.com/russellkim98/RKADE-sync/internal/shared"
	"github.com/russellkim98/RKADE-sync/internal/tasks"
	"github.com/urfave/cli/v3"
)

// BulkExport exports multiple playlists concurrently to files.
//
// With no playlist ID arguments, exports every playlist matching the configured filter.
func (r *Runner) BulkExport(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	outputDir := cmd.String("output")
	workers := cmd.Int("workers")
	rateLimit := cmd.Float("rate")
	ids := cmd.Args().Slice()

	switch format {
	case "json", "csv", "markdown", "txt":
	default:
		return fmt.Errorf("%w: unsupported format %q (json, csv, markdown, txt)", shared.ErrInvalidFlag, format)
	}

	if err := r.ensureEngine(); err != nil {
		return err
	}

	if len(ids) == 0 {
		playlists, err := r.fetchPlaylists(ctx, r.config.Library.PlaylistFilter)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
		for _, p := range playlists {
			ids = append(ids, p.ID)
		}
	}

	if len(ids) == 0 {
		return fmt.Errorf("%w: no playlists to export", shared.ErrMissingArgument)
	}

	r.logger.Info("starting bulk export", "playlists", len(ids), "format", format, "workers", workers)
	r.writePlain("Exporting %d playlists (%s)...\n\n", len(ids), format)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			if update.Phase == tasks.ExportPlaylist {
				r.writePlain("  [%d/%d] %s\n", update.Step, update.Total, update.Message)
			}
		}
	}()

	opts := tasks.BulkExportOpts{
		Format:        format,
		OutputDir:     outputDir,
		NumWorkers:    workers,
		RateLimit:     rateLimit,
		GetCoverImage: r.coverImageURL,
	}

	result, err := r.engine.BulkExport(ctx, progressCh, ids, opts)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete!")
	r.writePlain("Output directory: %s\n", result.OutputDirectory)
	r.writePlain("Successful: %d/%d\n", result.SuccessfulExports, result.TotalPlaylists)
	if result.FailedExports > 0 {
		r.writePlain("Failed: %d\n\n", result.FailedExports)
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  - %s: %v\n", res.PlaylistName, res.Error)
			}
		}
	}
	r.writePlain("Manifest: %s\n", result.ManifestPath)

	return nil
}

// coverImageURL resolves a playlist's cover art URL for markdown exports.
func (r *Runner) coverImageURL(ctx context.Context, playlistID string) (string, error) {
	svc, ok := r.spotify.(*services.SpotifyService)
	if !ok {
		return "", fmt.Errorf("%w: cover art lookup unsupported", shared.ErrServiceUnavailable)
	}

	playlist, err := svc.Playlist(ctx, playlistID)
	if err != nil {
		return "", err
	}
	if len(playlist.Images) == 0 {
		return "", fmt.Errorf("%w: playlist has no cover image", shared.ErrTrackNotFound)
	}
	return playlist.Images[0].URL, nil
}
