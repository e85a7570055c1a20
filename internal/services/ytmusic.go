// YouTube Music implementation of [Service] backed by yt-dlp.
//
// yt-dlp handles search (ytsearchN: pseudo-URLs) and playlist enumeration, so
// no YouTube API key is required. Flat playlist extraction keeps lookups cheap.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/russellkim98/RKADE-sync/internal/retry"
	"github.com/russellkim98/RKADE-sync/internal/shared"
)

const (
	defaultYtdlpPath    = "yt-dlp"
	defaultYtdlpTimeout = 5 * time.Minute
	defaultSearchLimit  = 5
)

// commandRunner executes an external command and returns stdout and stderr.
// Swappable in tests.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, []byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// ytdlpPlaylist represents yt-dlp's JSON output for a playlist or search result set.
type ytdlpPlaylist struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Uploader    string       `json:"uploader"`
	Description string       `json:"description"`
	Entries     []ytdlpEntry `json:"entries"`
}

// ytdlpEntry represents a single video in yt-dlp's JSON output.
type ytdlpEntry struct {
	ID         string           `json:"id"`
	Title      string           `json:"title"`
	Duration   float64          `json:"duration"` // seconds
	Uploader   string           `json:"uploader"`
	Channel    string           `json:"channel"`
	Thumbnail  string           `json:"thumbnail"`
	Thumbnails []ytdlpThumbnail `json:"thumbnails"`
}

type ytdlpThumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (e ytdlpEntry) uploader() string {
	if e.Uploader != "" {
		return e.Uploader
	}
	return e.Channel
}

func (e ytdlpEntry) thumbnail() string {
	if e.Thumbnail != "" {
		return e.Thumbnail
	}
	if len(e.Thumbnails) > 0 {
		// Last thumbnail is the largest in yt-dlp output.
		return e.Thumbnails[len(e.Thumbnails)-1].URL
	}
	return ""
}

// YTMusicService implements the Service interface using yt-dlp as a subprocess.
type YTMusicService struct {
	path               string
	timeout            time.Duration
	searchLimit        int
	cookiesFromBrowser string
	retryCfg           retry.Config
	run                commandRunner
}

// NewYTMusicService creates a YouTube Music service from downloader settings.
func NewYTMusicService(cfg shared.DownloaderConfig) *YTMusicService {
	path := cfg.YtdlpPath
	if path == "" {
		path = defaultYtdlpPath
	}

	limit := cfg.SearchLimit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	return &YTMusicService{
		path:               path,
		timeout:            defaultYtdlpTimeout,
		searchLimit:        limit,
		cookiesFromBrowser: cfg.CookiesFromBrowser,
		retryCfg:           retry.DefaultConfig(),
		run:                execRunner,
	}
}

// Authenticate verifies that the yt-dlp binary is available.
//
// YouTube Music needs no OAuth here; cookies extracted from the configured
// browser stand in for a session when age or region gates apply.
func (s *YTMusicService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if _, _, err := s.run(ctx, s.path, "--version"); err != nil {
		return fmt.Errorf("%w: %s", shared.ErrToolNotFound, s.path)
	}
	return nil
}

func (s *YTMusicService) Name() string {
	return "YouTube Music"
}

// Search performs a YouTube Music search and returns up to limit raw candidates.
func (s *YTMusicService) Search(ctx context.Context, query string, limit int) ([]Candidate, error) {
	if limit <= 0 {
		limit = s.searchLimit
	}

	pseudoURL := fmt.Sprintf("ytsearch%d:%s", limit, query)

	playlist, err := s.extract(ctx, pseudoURL)
	if err != nil {
		return nil, err
	}

	return candidatesFromEntries(playlist.Entries), nil
}

// PlaylistEntries lists the videos of a YouTube playlist as candidates.
func (s *YTMusicService) PlaylistEntries(ctx context.Context, playlistID string) ([]Candidate, error) {
	playlist, err := s.extract(ctx, playlistURL(playlistID))
	if err != nil {
		return nil, err
	}

	return candidatesFromEntries(playlist.Entries), nil
}

// GetPlaylists is unsupported: yt-dlp cannot enumerate a user's library without OAuth.
func (s *YTMusicService) GetPlaylists(ctx context.Context) ([]Playlist, error) {
	return nil, fmt.Errorf("listing library playlists: %w", shared.ErrNotImplemented)
}

// GetPlaylist retrieves playlist metadata by YouTube playlist ID.
func (s *YTMusicService) GetPlaylist(ctx context.Context, playlistID string) (*Playlist, error) {
	playlist, err := s.extract(ctx, playlistURL(playlistID))
	if err != nil {
		return nil, err
	}

	return &Playlist{
		ID:          playlist.ID,
		Name:        playlist.Title,
		Description: playlist.Description,
		TrackCount:  len(playlist.Entries),
		Public:      true,
	}, nil
}

// ExportPlaylist exports a YouTube playlist with all its entries as tracks.
func (s *YTMusicService) ExportPlaylist(ctx context.Context, playlistID string) (*PlaylistExport, error) {
	playlist, err := s.extract(ctx, playlistURL(playlistID))
	if err != nil {
		return nil, err
	}

	export := &PlaylistExport{
		Playlist: Playlist{
			ID:          playlist.ID,
			Name:        playlist.Title,
			Description: playlist.Description,
			TrackCount:  len(playlist.Entries),
			Public:      true,
		},
	}

	for _, entry := range playlist.Entries {
		export.Tracks = append(export.Tracks, Track{
			ID:       entry.ID,
			Title:    entry.Title,
			Artist:   entry.uploader(),
			Duration: int(entry.Duration),
			ArtURL:   entry.thumbnail(),
		})
	}

	return export, nil
}

// SearchTrack searches for a track by title and artist, returning the first result.
//
// Ranking against the source track is the matcher's job; callers that need
// scored candidates should use Search directly.
func (s *YTMusicService) SearchTrack(ctx context.Context, title, artist string) (*Track, error) {
	query := strings.TrimSpace(artist + " " + title)

	candidates, err := s.Search(ctx, query, s.searchLimit)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %s", shared.ErrTrackNotFound, query)
	}

	best := candidates[0]
	return &Track{
		ID:       best.VideoID,
		Title:    best.Title,
		Artist:   best.Uploader,
		Duration: best.Duration,
		ArtURL:   best.ThumbnailURL,
	}, nil
}

// extract runs yt-dlp with flat playlist JSON output against the given URL.
func (s *YTMusicService) extract(ctx context.Context, url string) (*ytdlpPlaylist, error) {
	var playlist ytdlpPlaylist

	err := retry.Do(ctx, s.retryCfg, retry.IsRetryable, func(ctx context.Context) error {
		args := []string{
			"--flat-playlist",
			"-J",
			"--no-warnings",
		}
		if s.cookiesFromBrowser != "" {
			args = append(args, "--cookies-from-browser", s.cookiesFromBrowser)
		}
		args = append(args, url)

		cmdCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		stdout, stderr, err := s.run(cmdCtx, s.path, args...)
		if err != nil {
			if cmdCtx.Err() == context.DeadlineExceeded {
				return fmt.Errorf("%w: yt-dlp timed out", shared.ErrTimeout)
			}
			if cmdCtx.Err() == context.Canceled {
				return context.Canceled
			}

			errMsg := string(stderr)
			if strings.Contains(errMsg, "does not exist") || strings.Contains(errMsg, "not available") {
				return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, url)
			}
			if strings.Contains(errMsg, "executable file not found") {
				return fmt.Errorf("%w: %s", shared.ErrToolNotFound, s.path)
			}

			return fmt.Errorf("yt-dlp failed: %w: %s", err, strings.TrimSpace(errMsg))
		}

		if err := json.Unmarshal(stdout, &playlist); err != nil {
			return fmt.Errorf("failed to parse yt-dlp output: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &playlist, nil
}

func playlistURL(playlistID string) string {
	if strings.HasPrefix(playlistID, "http://") || strings.HasPrefix(playlistID, "https://") {
		return playlistID
	}
	return "https://music.youtube.com/playlist?list=" + playlistID
}

func candidatesFromEntries(entries []ytdlpEntry) []Candidate {
	var candidates []Candidate
	for _, entry := range entries {
		if entry.ID == "" {
			continue
		}
		candidates = append(candidates, Candidate{
			VideoID:      entry.ID,
			Title:        entry.Title,
			Uploader:     entry.uploader(),
			Duration:     int(entry.Duration),
			ThumbnailURL: entry.thumbnail(),
		})
	}
	return candidates
}
