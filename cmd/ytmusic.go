package main

import (
	"context"
	"fmt"

	"github.com/russellkim98/RKADE-sync/internal/shared"
	"github.com/urfave/cli/v3"
)

// YTMusicSearch searches YouTube Music for candidate videos.
func (r *Runner) YTMusicSearch(ctx context.Context, cmd *cli.Command) error {
	if r.ytmusic == nil {
		return fmt.Errorf("%w: YouTube Music service not initialized", shared.ErrServiceUnavailable)
	}

	query := cmd.StringArg("query")
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if query == "" {
		return fmt.Errorf("%w: search query required", shared.ErrMissingArgument)
	}

	r.logger.Info("searching youtube music", "query", query, "limit", limit)

	candidates, err := r.ytmusic.Search(ctx, query, limit)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(candidates, pretty)
	}

	if len(candidates) == 0 {
		r.writePlain("No results for %q\n", query)
		return nil
	}

	r.writePlain("Found %d candidates:\n\n", len(candidates))
	for i, c := range candidates {
		r.writePlain("%d. %s\n", i+1, c.Title)
		if c.Uploader != "" {
			r.writePlain("   Uploader: %s\n", c.Uploader)
		}
		r.writePlain("   Video ID: %s\n", c.VideoID)
		if c.Duration > 0 {
			r.writePlain("   Duration: %s\n", shared.FormatDuration(c.Duration))
		}
		r.writePlain("\n")
	}

	return nil
}

// YTMusicPlaylist lists the entries of a pinned YouTube Music playlist from config.
func (r *Runner) YTMusicPlaylist(ctx context.Context, cmd *cli.Command) error {
	if r.ytmusic == nil {
		return fmt.Errorf("%w: YouTube Music service not initialized", shared.ErrServiceUnavailable)
	}

	name := cmd.StringArg("name")
	useJSON := cmd.Bool("json")

	if name == "" {
		return fmt.Errorf("%w: playlist name required (keys: yt_playlists in config.toml)", shared.ErrMissingArgument)
	}

	playlistID, ok := r.config.YTPlaylists[name]
	if !ok {
		// Allow passing a raw playlist ID directly.
		playlistID = name
	}

	r.logger.Info("listing youtube music playlist", "name", name, "id", playlistID)

	entries, err := r.ytmusic.PlaylistEntries(ctx, playlistID)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(entries, true)
	}

	r.writePlain("Playlist %s (%d entries):\n\n", name, len(entries))
	for i, c := range entries {
		r.writePlain("%d. %s", i+1, c.Title)
		if c.Duration > 0 {
			r.writePlain(" [%s]", shared.FormatDuration(c.Duration))
		}
		r.writePlain("\n")
	}

	return nil
}
