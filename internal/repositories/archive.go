package repositories

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/russellkim98/RKADE-sync/internal/models"
	"github.com/russellkim98/RKADE-sync/internal/shared"
)

// ArchiveAdapter implements tasks.Archiver using DownloadRepository.
//
// Provides download deduplication via the unique video_id constraint.
type ArchiveAdapter struct {
	repo *DownloadRepository
}

// NewArchiveAdapter creates a new ArchiveAdapter with the given repository
func NewArchiveAdapter(repo *DownloadRepository) *ArchiveAdapter {
	return &ArchiveAdapter{repo: repo}
}

// Contains reports whether a video is already in the download archive.
func (a *ArchiveAdapter) Contains(videoID string) bool {
	existing, err := a.repo.GetByVideoID(videoID)
	return err == nil && existing != nil
}

// ContainsTrack reports whether a Spotify track already has an archived download.
func (a *ArchiveAdapter) ContainsTrack(trackID string) bool {
	if trackID == "" {
		return false
	}
	existing, err := a.repo.GetByTrackID(trackID)
	return err == nil && existing != nil
}

// Record archives a completed download.
// Returns [shared.ErrAlreadyDownloaded] when the video is already archived,
// whether detected up front or by the UNIQUE constraint on insert.
func (a *ArchiveAdapter) Record(download *models.Download) error {
	if a.Contains(download.VideoID()) {
		return fmt.Errorf("%w: video %s", shared.ErrAlreadyDownloaded, download.VideoID())
	}

	err := a.repo.Create(download)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return fmt.Errorf("%w: video %s", shared.ErrAlreadyDownloaded, download.VideoID())
		}
		return fmt.Errorf("failed to record download: %w", err)
	}

	return nil
}

// WriteArchiveFile exports the archive as a yt-dlp --download-archive file.
//
// Each line has the form "youtube <video_id>", so yt-dlp itself skips
// already-downloaded videos when invoked on a whole playlist.
func (a *ArchiveAdapter) WriteArchiveFile(path string) error {
	downloads, err := a.repo.List(nil)
	if err != nil {
		return fmt.Errorf("failed to list archive: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open archive file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, d := range downloads {
		if _, err := fmt.Fprintf(w, "youtube %s\n", d.VideoID()); err != nil {
			return fmt.Errorf("failed to write archive entry: %w", err)
		}
	}

	return w.Flush()
}
