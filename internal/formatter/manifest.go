package formatter

import (
	"fmt"
	"os"
	"time"

	"github.com/russellkim98/RKADE-sync/internal/shared"
)

// Manifest summarizes the outcome of a bulk playlist export.
type Manifest struct {
	GeneratedAt     time.Time       `json:"generated_at"`
	Format          string          `json:"format"`
	OutputDirectory string          `json:"output_directory"`
	TotalPlaylists  int             `json:"total_playlists"`
	Successful      int             `json:"successful"`
	Failed          int             `json:"failed"`
	Entries         []ManifestEntry `json:"entries"`
}

// ManifestEntry records the result of exporting a single playlist.
type ManifestEntry struct {
	PlaylistID   string   `json:"playlist_id"`
	PlaylistName string   `json:"playlist_name"`
	Success      bool     `json:"success"`
	Files        []string `json:"files,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// WriteManifest writes the manifest as indented JSON to the given path.
func WriteManifest(m *Manifest, path string) error {
	if m.GeneratedAt.IsZero() {
		m.GeneratedAt = time.Now()
	}

	data, err := shared.MarshalJSON(m, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}
