package downloader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	rawDirName   = "raw"
	cleanDirName = "clean"
)

// Layout holds the on-disk directories for one playlist.
//
// Raw streams land in <root>/raw/<playlist>, transcoded MP3s in
// <root>/clean/<playlist>. The clean tree is what gets imported into
// rekordbox; raw files are kept so a re-transcode never re-downloads.
type Layout struct {
	Root     string
	RawDir   string
	CleanDir string
}

// NewLayout creates the raw and clean directories for a playlist.
func NewLayout(root, playlist string) (*Layout, error) {
	name := SanitizeFilename(playlist)

	layout := &Layout{
		Root:     root,
		RawDir:   filepath.Join(root, rawDirName, name),
		CleanDir: filepath.Join(root, cleanDirName, name),
	}

	for _, dir := range []string{layout.RawDir, layout.CleanDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return layout, nil
}

// CleanPath returns the final MP3 path for a track.
func (l *Layout) CleanPath(artist, title string) string {
	return filepath.Join(l.CleanDir, TrackFilename(artist, title)+".mp3")
}

// SanitizeFilename strips characters that break file paths or shell quoting.
func SanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "-",
		"*", "",
		"?", "",
		"\"", "'",
		"<", "",
		">", "",
		"|", "-",
		"\x00", "",
	)

	sanitized := strings.TrimSpace(replacer.Replace(name))
	// Trailing dots confuse Windows and some SMB mounts.
	sanitized = strings.TrimRight(sanitized, ".")
	if sanitized == "" {
		sanitized = "untitled"
	}

	return sanitized
}

// TrackFilename builds a "Artist - Title" base name safe for any filesystem.
func TrackFilename(artist, title string) string {
	if artist == "" {
		return SanitizeFilename(title)
	}
	return SanitizeFilename(artist + " - " + title)
}
