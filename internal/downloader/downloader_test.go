package downloader

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/russellkim98/RKADE-sync/internal/retry"
	"github.com/russellkim98/RKADE-sync/internal/shared"
)

// mockRunner returns canned stdout/stderr for subprocess invocations and records arguments
type mockRunner struct {
	stdout []byte
	stderr []byte
	err    error
	calls  [][]string
}

func (m *mockRunner) run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	m.calls = append(m.calls, append([]string{name}, args...))
	return m.stdout, m.stderr, m.err
}

func TestSanitizeFilename(t *testing.T) {
	tc := []struct {
		name  string
		input string
		want  string
	}{
		{name: "clean name untouched", input: "Deep Cut", want: "Deep Cut"},
		{name: "slashes replaced", input: "AC/DC - Back In Black", want: "AC_DC - Back In Black"},
		{name: "colons dashed", input: "Part 1: Intro", want: "Part 1- Intro"},
		{name: "quotes softened", input: `The "Best" Mix`, want: "The 'Best' Mix"},
		{name: "trailing dots trimmed", input: "Outro...", want: "Outro"},
		{name: "empty becomes untitled", input: "  ", want: "untitled"},
		{name: "illegal chars dropped", input: "What? *Really*", want: "What Really"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.input); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTrackFilename(t *testing.T) {
	if got := TrackFilename("DJ Example", "Deep Cut"); got != "DJ Example - Deep Cut" {
		t.Errorf("TrackFilename() = %q", got)
	}
	if got := TrackFilename("", "Deep Cut"); got != "Deep Cut" {
		t.Errorf("TrackFilename() with empty artist = %q", got)
	}
}

func TestNewLayout(t *testing.T) {
	root := t.TempDir()

	layout, err := NewLayout(root, "rekordbox_house")
	if err != nil {
		t.Fatalf("failed to create layout: %v", err)
	}

	for _, dir := range []string{layout.RawDir, layout.CleanDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %s to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Errorf("expected %s to be a directory", dir)
		}
	}

	if layout.RawDir != filepath.Join(root, "raw", "rekordbox_house") {
		t.Errorf("unexpected raw dir %s", layout.RawDir)
	}

	clean := layout.CleanPath("DJ Example", "Deep Cut")
	want := filepath.Join(root, "clean", "rekordbox_house", "DJ Example - Deep Cut.mp3")
	if clean != want {
		t.Errorf("CleanPath() = %q, want %q", clean, want)
	}
}

func TestYtdlpDownloader(t *testing.T) {
	newTestDownloader := func(runner *mockRunner) *YtdlpDownloader {
		d := NewYtdlpDownloader(shared.DownloaderConfig{})
		d.run = runner.run
		d.retryCfg = retry.Config{MaxRetries: 0}
		return d
	}

	t.Run("Download", func(t *testing.T) {
		runner := &mockRunner{stdout: []byte("/music/raw/rekordbox_house/DJ Example - Deep Cut.webm\n")}
		d := newTestDownloader(runner)

		path, err := d.Download(context.Background(), "vid001", "/music/raw/rekordbox_house", "DJ Example - Deep Cut")
		if err != nil {
			t.Fatalf("failed to download: %v", err)
		}

		if path != "/music/raw/rekordbox_house/DJ Example - Deep Cut.webm" {
			t.Errorf("unexpected path %q", path)
		}

		joined := strings.Join(runner.calls[0], " ")
		if !strings.Contains(joined, "-f bestaudio") {
			t.Errorf("expected bestaudio format, got %v", runner.calls[0])
		}
		if !strings.Contains(joined, "watch?v=vid001") {
			t.Errorf("expected video URL, got %v", runner.calls[0])
		}
		if !strings.Contains(joined, "after_move:filepath") {
			t.Errorf("expected filepath print, got %v", runner.calls[0])
		}
	})

	t.Run("Download With Audio Format Preference", func(t *testing.T) {
		runner := &mockRunner{stdout: []byte("/tmp/x.m4a")}
		d := NewYtdlpDownloader(shared.DownloaderConfig{AudioFormat: "m4a"})
		d.run = runner.run
		d.retryCfg = retry.Config{MaxRetries: 0}

		if _, err := d.Download(context.Background(), "vid001", "/tmp", "x"); err != nil {
			t.Fatalf("failed to download: %v", err)
		}

		if !strings.Contains(strings.Join(runner.calls[0], " "), "-f bestaudio[ext=m4a]/bestaudio") {
			t.Errorf("expected format preference, got %v", runner.calls[0])
		}
	})

	t.Run("Download With Cookies", func(t *testing.T) {
		runner := &mockRunner{stdout: []byte("/tmp/x.m4a")}
		d := NewYtdlpDownloader(shared.DownloaderConfig{CookiesFromBrowser: "chrome"})
		d.run = runner.run
		d.retryCfg = retry.Config{MaxRetries: 0}

		if _, err := d.Download(context.Background(), "vid001", "/tmp", "x"); err != nil {
			t.Fatalf("failed to download: %v", err)
		}

		if !strings.Contains(strings.Join(runner.calls[0], " "), "--cookies-from-browser chrome") {
			t.Errorf("expected cookies flag, got %v", runner.calls[0])
		}
	})

	t.Run("Video Unavailable Is Permanent", func(t *testing.T) {
		runner := &mockRunner{
			err:    fmt.Errorf("exit status 1"),
			stderr: []byte("ERROR: Video unavailable"),
		}
		d := NewYtdlpDownloader(shared.DownloaderConfig{})
		d.run = runner.run
		d.retryCfg = retry.Config{MaxRetries: 3}

		_, err := d.Download(context.Background(), "vidgone", "/tmp", "gone")
		if !errors.Is(err, shared.ErrDownloadFailed) {
			t.Errorf("expected download failed error, got %v", err)
		}
		if len(runner.calls) != 1 {
			t.Errorf("expected no retries for unavailable video, got %d attempts", len(runner.calls))
		}
	})

	t.Run("Empty Output Path", func(t *testing.T) {
		runner := &mockRunner{stdout: []byte("")}
		d := newTestDownloader(runner)

		_, err := d.Download(context.Background(), "vid001", "/tmp", "x")
		if !errors.Is(err, shared.ErrDownloadFailed) {
			t.Errorf("expected download failed error, got %v", err)
		}
	})

	t.Run("CheckInstalled", func(t *testing.T) {
		runner := &mockRunner{err: errors.New("executable file not found in $PATH")}
		d := newTestDownloader(runner)

		if err := d.CheckInstalled(context.Background()); !errors.Is(err, shared.ErrToolNotFound) {
			t.Errorf("expected tool not found error, got %v", err)
		}
	})
}

func TestTranscoder(t *testing.T) {
	t.Run("BuildFFmpegArgs Without Cover", func(t *testing.T) {
		tr := NewTranscoder(shared.DownloaderConfig{Bitrate: "256k"})

		args := tr.BuildFFmpegArgs("in.webm", "out.mp3", Tags{
			Title:    "Deep Cut",
			Artist:   "DJ Example",
			Album:    "Sessions",
			Playlist: "rekordbox_house",
		}, "")

		joined := strings.Join(args, " ")
		for _, want := range []string{
			"-i in.webm",
			"-c:a libmp3lame",
			"-b:a 256k",
			"-id3v2_version 3",
			"title=Deep Cut",
			"artist=DJ Example",
			"album=Sessions",
			"playlist=rekordbox_house",
		} {
			if !strings.Contains(joined, want) {
				t.Errorf("expected args to contain %q, got %v", want, args)
			}
		}

		if strings.Contains(joined, "attached_pic") {
			t.Error("expected no cover mapping without cover path")
		}
		if args[len(args)-1] != "out.mp3" {
			t.Errorf("expected output path last, got %s", args[len(args)-1])
		}
	})

	t.Run("BuildFFmpegArgs With Cover", func(t *testing.T) {
		tr := NewTranscoder(shared.DownloaderConfig{})

		args := tr.BuildFFmpegArgs("in.webm", "out.mp3", Tags{Title: "Deep Cut"}, "/tmp/cover.jpg")

		joined := strings.Join(args, " ")
		if !strings.Contains(joined, "-i /tmp/cover.jpg") {
			t.Errorf("expected cover input, got %v", args)
		}
		if !strings.Contains(joined, "attached_pic") {
			t.Errorf("expected attached_pic disposition, got %v", args)
		}
	})

	t.Run("Default Bitrate", func(t *testing.T) {
		tr := NewTranscoder(shared.DownloaderConfig{})
		args := tr.BuildFFmpegArgs("in.webm", "out.mp3", Tags{}, "")

		if !strings.Contains(strings.Join(args, " "), "-b:a 256k") {
			t.Errorf("expected default 256k bitrate, got %v", args)
		}
	})

	t.Run("Transcode Failure Removes Output", func(t *testing.T) {
		dir := t.TempDir()
		outputPath := filepath.Join(dir, "out.mp3")
		if err := os.WriteFile(outputPath, []byte("partial"), 0644); err != nil {
			t.Fatalf("failed to seed partial file: %v", err)
		}

		runner := &mockRunner{
			err:    fmt.Errorf("exit status 1"),
			stderr: []byte("Invalid data found when processing input"),
		}
		tr := NewTranscoder(shared.DownloaderConfig{})
		tr.run = runner.run

		err := tr.Transcode(context.Background(), "in.webm", outputPath, Tags{}, "")
		if !errors.Is(err, shared.ErrTranscodeFailed) {
			t.Errorf("expected transcode failed error, got %v", err)
		}

		if _, statErr := os.Stat(outputPath); !os.IsNotExist(statErr) {
			t.Error("expected partial output to be removed on failure")
		}
	})

	t.Run("Duration", func(t *testing.T) {
		runner := &mockRunner{stdout: []byte("215.384000\n")}
		tr := NewTranscoder(shared.DownloaderConfig{})
		tr.run = runner.run

		seconds, err := tr.Duration(context.Background(), "out.mp3")
		if err != nil {
			t.Fatalf("failed to probe duration: %v", err)
		}
		if seconds != 215 {
			t.Errorf("expected 215 seconds, got %d", seconds)
		}
	})

	t.Run("Fetch Cover", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("jpegdata"))
		}))
		defer server.Close()

		tr := NewTranscoder(shared.DownloaderConfig{})

		path, err := tr.fetchCover(context.Background(), server.URL+"/cover.jpg")
		if err != nil {
			t.Fatalf("failed to fetch cover: %v", err)
		}
		defer os.Remove(path)

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read cover file: %v", err)
		}
		if string(data) != "jpegdata" {
			t.Errorf("unexpected cover contents %q", data)
		}
	})

	t.Run("Fetch Cover Non-200", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		tr := NewTranscoder(shared.DownloaderConfig{})

		if _, err := tr.fetchCover(context.Background(), server.URL+"/missing.jpg"); err == nil {
			t.Error("expected error for missing cover")
		}
	})
}
