// package tasks implements the sync pipeline that mirrors Spotify playlists
// into a local audio library.
//
// The core abstraction is SyncEngine, which orchestrates playlist syncs,
// archive comparisons, and bulk metadata exports. Operations emit progress
// updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/russellkim98/RKADE-sync/internal/downloader"
	"github.com/russellkim98/RKADE-sync/internal/matcher"
	"github.com/russellkim98/RKADE-sync/internal/models"
	"github.com/russellkim98/RKADE-sync/internal/services"
	"github.com/russellkim98/RKADE-sync/internal/shared"
)

// TrackSyncResult represents the outcome of syncing a single track.
type TrackSyncResult struct {
	Track    services.Track   // Original track from Spotify
	Match    *matcher.Scored  // Accepted candidate (nil if skipped or failed)
	Download *models.Download // Archive record (nil if skipped or failed)
	Skipped  bool             // Track was already in the archive
	Error    error            // Error if the track failed
}

// SyncRunResult contains all data from a full playlist sync.
type SyncRunResult struct {
	Playlist   *services.PlaylistExport // Source playlist with tracks
	Run        *models.SyncRun          // Persisted run record
	Results    []TrackSyncResult        // Per-track outcomes
	Downloaded int                      // Tracks downloaded and transcoded
	Skipped    int                      // Tracks already archived
	Failed     int                      // Tracks that failed to sync
}

// DiffResult contains the comparison of a playlist against the archive.
type DiffResult struct {
	Playlist *services.PlaylistExport // Source playlist
	Archived []services.Track         // Tracks already in the archive
	Missing  []services.Track         // Tracks a sync run would download
}

// SyncEngine defines the playlist sync operations.
type SyncEngine interface {
	// Run performs a full sync of one playlist: search, match, download, transcode, archive.
	Run(ctx context.Context, progress chan<- ProgressUpdate, playlistIDOrName string) (*SyncRunResult, error)

	// Diff compares a playlist against the archive without downloading anything.
	Diff(ctx context.Context, progress chan<- ProgressUpdate, playlistIDOrName string) (*DiffResult, error)

	// BulkExport exports playlist metadata to files concurrently.
	BulkExport(ctx context.Context, progress chan<- ProgressUpdate, ids []string, opts BulkExportOpts) (*BulkExportResult, error)
}

// Searcher finds download candidates for a free-text query.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]services.Candidate, error)
}

// PlaylistLister resolves a known playlist ID into its candidate entries.
//
// A Searcher that also implements PlaylistLister lets the engine fetch a
// mapped playlist in one call instead of searching track by track.
type PlaylistLister interface {
	PlaylistEntries(ctx context.Context, playlistID string) ([]services.Candidate, error)
}

// Downloader fetches the best audio stream for a video into a directory.
type Downloader interface {
	Download(ctx context.Context, videoID, outDir, baseName string) (string, error)
}

// Transcoder converts a raw stream into a tagged MP3.
type Transcoder interface {
	Transcode(ctx context.Context, inputPath, outputPath string, tags downloader.Tags, coverURL string) error
	Duration(ctx context.Context, path string) (int, error)
}

// Archiver records completed downloads and answers dedup queries.
type Archiver interface {
	Contains(videoID string) bool
	ContainsTrack(trackID string) bool
	Record(download *models.Download) error
}

// RunStore persists sync run records.
type RunStore interface {
	Create(run *models.SyncRun) error
	Update(run *models.SyncRun) error
}

// LibraryEngine implements SyncEngine against Spotify, yt-dlp, and ffmpeg.
type LibraryEngine struct {
	spotify    services.Service
	search     Searcher
	matcher    *matcher.Matcher
	downloader Downloader
	transcoder Transcoder
	archive    Archiver
	runs       RunStore

	rootDir     string
	searchLimit int
	ytPlaylists map[string]string
	logger      *log.Logger
}

// NewLibraryEngine creates a LibraryEngine with the provided dependencies.
//
// runs may be nil, in which case run records are not persisted. ytPlaylists
// maps Spotify playlist names to YouTube playlist IDs; mapped playlists are
// fetched in one call through [PlaylistLister] instead of searched track by
// track.
func NewLibraryEngine(
	spotify services.Service,
	search Searcher,
	m *matcher.Matcher,
	dl Downloader,
	tr Transcoder,
	archive Archiver,
	runs RunStore,
	libCfg shared.LibraryConfig,
	dlCfg shared.DownloaderConfig,
	ytPlaylists map[string]string,
	logger *log.Logger,
) *LibraryEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	searchLimit := dlCfg.SearchLimit
	if searchLimit <= 0 {
		searchLimit = 5
	}

	rootDir := libCfg.RootDir
	if rootDir == "" {
		rootDir = "."
	}

	return &LibraryEngine{
		spotify:     spotify,
		search:      search,
		matcher:     m,
		downloader:  dl,
		transcoder:  tr,
		archive:     archive,
		runs:        runs,
		rootDir:     rootDir,
		searchLimit: searchLimit,
		ytPlaylists: ytPlaylists,
		logger:      logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *LibraryEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// resolvePlaylist exports a playlist by ID, falling back to a case-insensitive
// name match against the account's playlists when the ID lookup fails.
func (e *LibraryEngine) resolvePlaylist(ctx context.Context, idOrName string) (*services.PlaylistExport, error) {
	export, err := e.spotify.ExportPlaylist(ctx, idOrName)
	if err == nil {
		return export, nil
	}

	playlists, playlistsErr := e.spotify.GetPlaylists(ctx)
	if playlistsErr != nil {
		return nil, fmt.Errorf("failed to get playlists: %w", playlistsErr)
	}

	var matchedID string
	for _, pl := range playlists {
		if strings.EqualFold(pl.Name, idOrName) {
			matchedID = pl.ID
			break
		}
	}

	if matchedID == "" {
		return nil, fmt.Errorf("%w: no playlist found with name '%s'", shared.ErrPlaylistNotFound, idOrName)
	}

	export, err = e.spotify.ExportPlaylist(ctx, matchedID)
	if err != nil {
		return nil, fmt.Errorf("failed to export playlist: %w", err)
	}
	return export, nil
}

// Run performs a full playlist sync.
//
// Each track is searched on YouTube Music, scored against the Spotify
// metadata, downloaded as a raw stream, transcoded into a tagged MP3, and
// recorded in the archive. Tracks already in the archive are skipped, and
// per-track failures do not abort the run.
func (e *LibraryEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, playlistIDOrName string) (*SyncRunResult, error) {
	if e.spotify == nil {
		return nil, fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}
	if e.search == nil || e.matcher == nil || e.downloader == nil || e.transcoder == nil {
		return nil, fmt.Errorf("%w: download pipeline not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, fetchingSourceUpdate(playlistIDOrName))

	export, err := e.resolvePlaylist(ctx, playlistIDOrName)
	if err != nil {
		return nil, err
	}

	total := len(export.Tracks)
	e.sendProgress(progress, foundPlaylistUpdate(export))

	preset := e.mappedCandidates(ctx, export.Playlist.Name)

	run := models.NewSyncRun(export.Playlist.Name, total)
	run.Start()
	if e.runs != nil {
		if err := e.runs.Create(run); err != nil {
			return nil, fmt.Errorf("failed to record sync run: %w", err)
		}
	}

	result := &SyncRunResult{
		Playlist: export,
		Run:      run,
		Results:  make([]TrackSyncResult, 0, total),
	}

	layout, err := downloader.NewLayout(e.rootDir, export.Playlist.Name)
	if err != nil {
		e.failRun(run, err)
		return nil, err
	}

	for i, track := range export.Tracks {
		if err := ctx.Err(); err != nil {
			e.failRun(run, err)
			return result, err
		}

		trackResult := e.syncTrack(ctx, progress, layout, export.Playlist.Name, track, preset, i+1, total)
		result.Results = append(result.Results, trackResult)

		switch {
		case trackResult.Skipped:
			result.Skipped++
		case trackResult.Error != nil:
			result.Failed++
			e.logger.Warn("track sync failed", "track", track.Title, "artist", track.Artist, "error", trackResult.Error)
		default:
			result.Downloaded++
		}
	}

	run.Complete(result.Downloaded, result.Skipped, result.Failed)
	if e.runs != nil {
		if err := e.runs.Update(run); err != nil {
			e.logger.Warn("failed to update sync run", "error", err)
		}
	}

	e.logger.Info("sync complete",
		"playlist", export.Playlist.Name,
		"downloaded", result.Downloaded,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return result, nil
}

// mappedCandidates fetches the entries of a YouTube playlist mapped to the
// given Spotify playlist name, or nil when no usable mapping exists. A fetch
// failure falls back to per-track search rather than failing the run.
func (e *LibraryEngine) mappedCandidates(ctx context.Context, playlistName string) []services.Candidate {
	playlistID, ok := e.ytPlaylists[playlistName]
	if !ok || playlistID == "" {
		return nil
	}

	lister, ok := e.search.(PlaylistLister)
	if !ok {
		return nil
	}

	entries, err := lister.PlaylistEntries(ctx, playlistID)
	if err != nil {
		e.logger.Warn("mapped playlist fetch failed, falling back to search",
			"playlist", playlistName, "yt_playlist", playlistID, "error", err)
		return nil
	}

	e.logger.Info("using mapped playlist entries",
		"playlist", playlistName, "yt_playlist", playlistID, "entries", len(entries))
	return entries
}

// syncTrack runs the search → match → download → transcode → archive pipeline
// for one track. A non-nil preset replaces the per-track search with the
// entries of a mapped playlist.
func (e *LibraryEngine) syncTrack(
	ctx context.Context,
	progress chan<- ProgressUpdate,
	layout *downloader.Layout,
	playlist string,
	track services.Track,
	preset []services.Candidate,
	step, total int,
) TrackSyncResult {
	result := TrackSyncResult{Track: track}

	if e.archive != nil && e.archive.ContainsTrack(track.ID) {
		result.Skipped = true
		e.sendProgress(progress, skipUpdate(step, total, track))
		return result
	}

	e.sendProgress(progress, searchUpdate(step, total, track))

	candidates := preset
	if candidates == nil {
		query := strings.TrimSpace(track.Title + " " + track.Artist)

		var err error
		candidates, err = e.search.Search(ctx, query, e.searchLimit)
		if err != nil {
			result.Error = fmt.Errorf("search failed: %w", err)
			e.sendProgress(progress, failedTrackUpdate(step, total, track, result.Error))
			return result
		}
	}

	match, err := e.matcher.BestMatch(track, candidates)
	if err != nil {
		result.Error = err
		e.sendProgress(progress, failedTrackUpdate(step, total, track, err))
		return result
	}
	result.Match = match

	if e.archive != nil && e.archive.Contains(match.Candidate.VideoID) {
		result.Skipped = true
		e.sendProgress(progress, skipUpdate(step, total, track))
		return result
	}

	e.sendProgress(progress, downloadUpdate(step, total, track, match.Candidate.VideoID))

	baseName := downloader.TrackFilename(track.Artist, track.Title)
	rawPath, err := e.downloader.Download(ctx, match.Candidate.VideoID, layout.RawDir, baseName)
	if err != nil {
		result.Error = err
		e.sendProgress(progress, failedTrackUpdate(step, total, track, err))
		return result
	}

	e.sendProgress(progress, transcodeUpdate(step, total, track))

	cleanPath := layout.CleanPath(track.Artist, track.Title)
	tags := downloader.Tags{
		Title:    track.Title,
		Artist:   track.Artist,
		Album:    track.Album,
		Playlist: playlist,
	}
	if err := e.transcoder.Transcode(ctx, rawPath, cleanPath, tags, track.ArtURL); err != nil {
		result.Error = err
		e.sendProgress(progress, failedTrackUpdate(step, total, track, err))
		return result
	}

	download := models.NewDownload(match.Candidate.VideoID, track.ID, track.Title, track.Artist, track.Album, playlist)
	download.SetRawPath(rawPath)
	download.SetCleanPath(cleanPath)
	download.SetMatchScore(match.Score)

	if seconds, err := e.transcoder.Duration(ctx, cleanPath); err == nil {
		download.SetDuration(seconds)
	} else {
		download.SetDuration(track.Duration)
	}

	if e.archive != nil {
		if err := e.archive.Record(download); err != nil {
			if errors.Is(err, shared.ErrAlreadyDownloaded) {
				result.Skipped = true
				e.sendProgress(progress, skipUpdate(step, total, track))
				return result
			}
			result.Error = err
			e.sendProgress(progress, failedTrackUpdate(step, total, track, err))
			return result
		}
	}
	result.Download = download

	e.sendProgress(progress, archivedTrackUpdate(step, total, track, match.Score))
	return result
}

// Diff compares a playlist against the archive without downloading anything.
func (e *LibraryEngine) Diff(ctx context.Context, progress chan<- ProgressUpdate, playlistIDOrName string) (*DiffResult, error) {
	if e.spotify == nil {
		return nil, fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}
	if e.archive == nil {
		return nil, fmt.Errorf("%w: archive not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, fetchingSourceUpdate(playlistIDOrName))

	export, err := e.resolvePlaylist(ctx, playlistIDOrName)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, compareUpdate(1, 1))

	result := &DiffResult{Playlist: export}
	for _, track := range export.Tracks {
		if e.archive.ContainsTrack(track.ID) {
			result.Archived = append(result.Archived, track)
		} else {
			result.Missing = append(result.Missing, track)
		}
	}

	return result, nil
}

func (e *LibraryEngine) failRun(run *models.SyncRun, err error) {
	run.Fail(err)
	if e.runs != nil {
		if updateErr := e.runs.Update(run); updateErr != nil {
			e.logger.Warn("failed to update sync run", "error", updateErr)
		}
	}
}
