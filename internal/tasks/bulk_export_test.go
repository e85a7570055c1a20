package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/russellkim98/RKADE-sync/internal/formatter"
	"github.com/russellkim98/RKADE-sync/internal/services"
)

func bulkTestEngine(t *testing.T, count int) (*LibraryEngine, []string) {
	t.Helper()

	exports := make(map[string]*services.PlaylistExport, count)
	ids := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		id := fmt.Sprintf("playlist%d", i)
		ids = append(ids, id)
		exports[id] = &services.PlaylistExport{
			Playlist: services.Playlist{
				ID:         id,
				Name:       fmt.Sprintf("rekordbox_%d", i),
				TrackCount: 1,
			},
			Tracks: []services.Track{
				{ID: "t1", Title: "Deep Cut", Artist: "DJ Example", Duration: 215},
			},
		}
	}

	engine, mocks := newTestEngine(t)
	mocks.spotify.playlistExports = exports
	return engine, ids
}

func TestBulkExport(t *testing.T) {
	tests := []struct {
		name          string
		format        string
		playlistCount int
		filesPerEntry int
	}{
		{name: "json export", format: "json", playlistCount: 1, filesPerEntry: 1},
		{name: "csv export", format: "csv", playlistCount: 3, filesPerEntry: 2},
		{name: "text export", format: "txt", playlistCount: 2, filesPerEntry: 1},
		{name: "markdown export", format: "markdown", playlistCount: 1, filesPerEntry: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, ids := bulkTestEngine(t, tt.playlistCount)
			tempDir := t.TempDir()

			result, err := engine.BulkExport(context.Background(), nil, ids, BulkExportOpts{
				Format:    tt.format,
				OutputDir: tempDir,
			})
			if err != nil {
				t.Fatalf("BulkExport failed: %v", err)
			}

			if result.SuccessfulExports != tt.playlistCount || result.FailedExports != 0 {
				t.Errorf("unexpected counts: success=%d failed=%d", result.SuccessfulExports, result.FailedExports)
			}
			for _, res := range result.Results {
				if len(res.Files) < tt.filesPerEntry {
					t.Errorf("expected at least %d files for %s, got %d", tt.filesPerEntry, res.PlaylistID, len(res.Files))
				}
				for _, f := range res.Files {
					if _, err := os.Stat(f); err != nil {
						t.Errorf("exported file missing: %v", err)
					}
				}
			}

			if result.ManifestPath != filepath.Join(tempDir, "export_manifest.json") {
				t.Errorf("unexpected manifest path %s", result.ManifestPath)
			}

			data, err := os.ReadFile(result.ManifestPath)
			if err != nil {
				t.Fatalf("manifest not written: %v", err)
			}
			var manifest formatter.Manifest
			if err := json.Unmarshal(data, &manifest); err != nil {
				t.Fatalf("manifest is not valid JSON: %v", err)
			}
			if manifest.TotalPlaylists != tt.playlistCount || manifest.Successful != tt.playlistCount {
				t.Errorf("unexpected manifest counts: %+v", manifest)
			}
			if manifest.Format != tt.format {
				t.Errorf("expected manifest format %s, got %s", tt.format, manifest.Format)
			}
		})
	}

	t.Run("Partial Failure", func(t *testing.T) {
		engine, ids := bulkTestEngine(t, 2)
		ids = append(ids, "missing_playlist")

		result, err := engine.BulkExport(context.Background(), nil, ids, BulkExportOpts{
			Format:    "json",
			OutputDir: t.TempDir(),
		})
		if err != nil {
			t.Fatalf("BulkExport failed: %v", err)
		}

		if result.SuccessfulExports != 2 || result.FailedExports != 1 {
			t.Errorf("unexpected counts: success=%d failed=%d", result.SuccessfulExports, result.FailedExports)
		}

		var failed *PlaylistExportResult
		for i := range result.Results {
			if !result.Results[i].Success {
				failed = &result.Results[i]
			}
		}
		if failed == nil {
			t.Fatal("expected a failed entry")
		}
		if failed.Error == nil {
			t.Error("failed entry should carry an error")
		}
	})

	t.Run("Progress Updates", func(t *testing.T) {
		engine, ids := bulkTestEngine(t, 2)

		progress := make(chan ProgressUpdate, 32)
		if _, err := engine.BulkExport(context.Background(), progress, ids, BulkExportOpts{
			Format:    "json",
			OutputDir: t.TempDir(),
		}); err != nil {
			t.Fatalf("BulkExport failed: %v", err)
		}
		close(progress)

		sawExport := false
		for update := range progress {
			if update.Phase == ExportPlaylist {
				sawExport = true
			}
		}
		if !sawExport {
			t.Error("expected export progress updates")
		}
	})

	t.Run("Cover Image Fetcher", func(t *testing.T) {
		engine, ids := bulkTestEngine(t, 1)

		var fetchedID string
		_, err := engine.BulkExport(context.Background(), nil, ids, BulkExportOpts{
			Format:    "markdown",
			OutputDir: t.TempDir(),
			GetCoverImage: func(ctx context.Context, id string) (string, error) {
				fetchedID = id
				return "", fmt.Errorf("no image")
			},
		})
		if err != nil {
			t.Fatalf("BulkExport failed: %v", err)
		}
		if fetchedID != "playlist1" {
			t.Errorf("expected cover fetcher to be called with playlist1, got %q", fetchedID)
		}
	})
}
