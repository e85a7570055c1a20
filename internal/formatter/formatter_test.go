package formatter

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/russellkim98/RKADE-sync/internal/services"
)

func testExport() *services.PlaylistExport {
	return &services.PlaylistExport{
		Playlist: services.Playlist{
			ID:          "pl123",
			Name:        "rekordbox_house",
			Description: "Weekly house selections",
			TrackCount:  2,
			Public:      false,
		},
		Tracks: []services.Track{
			{
				ID:       "track1",
				Title:    "Deep Cut",
				Artist:   "DJ Example",
				Album:    "Sessions",
				Duration: 180,
				ISRC:     "USRC12345678",
			},
			{
				ID:       "track2",
				Title:    "Night Drive",
				Artist:   "Synth Artist",
				Album:    "",
				Duration: 245,
				ISRC:     "USRC87654321",
			},
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(testExport())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "ID,Title,Artist,Album,Duration,ISRC") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "track1,Deep Cut,DJ Example,Sessions,180,USRC12345678") {
			t.Errorf("CSV missing track row, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		t.Run("without cover image", func(t *testing.T) {
			data, err := ExportToMarkdown(testExport(), "")
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}

			output := string(data)

			if !strings.Contains(output, "# rekordbox_house") {
				t.Errorf("Markdown missing title")
			}
			if !strings.Contains(output, "**Description**: Weekly house selections") {
				t.Errorf("Markdown missing description")
			}
			if !strings.Contains(output, "**Tracks**: 2") {
				t.Errorf("Markdown missing track count")
			}
			if !strings.Contains(output, "**Visibility**: Private") {
				t.Errorf("Markdown missing visibility")
			}
			if !strings.Contains(output, "1. DJ Example - Deep Cut (Sessions) [3:00]") {
				t.Errorf("Markdown missing first track, got: %s", output)
			}
			if !strings.Contains(output, "2. Synth Artist - Night Drive [4:05]") {
				t.Errorf("Markdown missing album-less track, got: %s", output)
			}
			if strings.Contains(output, "![Cover]") {
				t.Errorf("Markdown should not reference a cover image")
			}
		})

		t.Run("with cover image", func(t *testing.T) {
			data, err := ExportToMarkdown(testExport(), "cover.jpg")
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}

			if !strings.Contains(string(data), "![Cover](cover.jpg)") {
				t.Errorf("Markdown missing cover reference")
			}
		})
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(testExport())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Playlist: rekordbox_house") {
			t.Errorf("text missing playlist name")
		}
		if !strings.Contains(output, "1. DJ Example - Deep Cut") {
			t.Errorf("text missing track line, got: %s", output)
		}
	})
}

func TestWriteExports(t *testing.T) {
	t.Run("WriteCSVExport", func(t *testing.T) {
		dir := t.TempDir()
		base := filepath.Join(dir, "pl123")

		result, err := WriteCSVExport(testExport(), base)
		if err != nil {
			t.Fatalf("WriteCSVExport failed: %v", err)
		}

		if result.TracksFile != base+"_tracks.csv" {
			t.Errorf("unexpected tracks file %s", result.TracksFile)
		}
		if _, err := os.Stat(result.TracksFile); err != nil {
			t.Errorf("tracks file not written: %v", err)
		}

		metadata, err := os.ReadFile(result.MetadataFile)
		if err != nil {
			t.Fatalf("metadata file not written: %v", err)
		}
		if !strings.Contains(string(metadata), "rekordbox_house") {
			t.Errorf("metadata missing playlist name")
		}
	})

	t.Run("WriteMarkdownExport", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("jpegdata"))
		}))
		defer server.Close()

		dir := filepath.Join(t.TempDir(), "pl123")

		result, err := WriteMarkdownExport(testExport(), dir, server.URL+"/cover.jpg")
		if err != nil {
			t.Fatalf("WriteMarkdownExport failed: %v", err)
		}

		if result.CoverImage == "" {
			t.Error("expected cover image to be saved")
		}
		if len(result.Files) != 2 {
			t.Errorf("expected 2 files, got %d", len(result.Files))
		}

		readme, err := os.ReadFile(filepath.Join(dir, "README.md"))
		if err != nil {
			t.Fatalf("README not written: %v", err)
		}
		if !strings.Contains(string(readme), "![Cover](cover.jpg)") {
			t.Errorf("README missing cover reference")
		}
	})

	t.Run("WriteTextExport", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tracks.txt")

		written, err := WriteTextExport(testExport(), path)
		if err != nil {
			t.Fatalf("WriteTextExport failed: %v", err)
		}
		if written != path {
			t.Errorf("unexpected path %s", written)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("text file not written: %v", err)
		}
		if !strings.Contains(string(data), "Night Drive") {
			t.Errorf("text file missing track")
		}
	})
}

func TestWriteManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export_manifest.json")

	manifest := &Manifest{
		Format:          "csv",
		OutputDirectory: "/tmp/export",
		TotalPlaylists:  2,
		Successful:      1,
		Failed:          1,
		Entries: []ManifestEntry{
			{PlaylistID: "pl1", PlaylistName: "rekordbox_house", Success: true, Files: []string{"pl1_tracks.csv"}},
			{PlaylistID: "pl2", PlaylistName: "rekordbox_techno", Success: false, Error: "playlist not found"},
		},
	}

	if err := WriteManifest(manifest, path); err != nil {
		t.Fatalf("WriteManifest failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("manifest not written: %v", err)
	}

	var decoded Manifest
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("manifest is not valid JSON: %v", err)
	}

	if decoded.TotalPlaylists != 2 || decoded.Successful != 1 || decoded.Failed != 1 {
		t.Errorf("unexpected counts in manifest: %+v", decoded)
	}
	if decoded.GeneratedAt.IsZero() {
		t.Error("expected generated_at to be set")
	}
	if len(decoded.Entries) != 2 || decoded.Entries[1].Error != "playlist not found" {
		t.Errorf("unexpected entries: %+v", decoded.Entries)
	}
}
