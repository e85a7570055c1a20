// Package downloader fetches audio streams with yt-dlp and transcodes them
// with ffmpeg into tagged MP3s ready for library import.
package downloader

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/russellkim98/RKADE-sync/internal/retry"
	"github.com/russellkim98/RKADE-sync/internal/shared"
)

const (
	defaultYtdlpPath       = "yt-dlp"
	defaultDownloadTimeout = 15 * time.Minute
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

// YtdlpDownloader downloads the best audio stream of a video via yt-dlp.
type YtdlpDownloader struct {
	path               string
	timeout            time.Duration
	audioFormat        string
	cookiesFromBrowser string
	retryCfg           retry.Config
	run                commandRunner
}

// NewYtdlpDownloader creates a downloader from downloader settings.
func NewYtdlpDownloader(cfg shared.DownloaderConfig) *YtdlpDownloader {
	path := cfg.YtdlpPath
	if path == "" {
		path = defaultYtdlpPath
	}

	return &YtdlpDownloader{
		path:               path,
		timeout:            defaultDownloadTimeout,
		audioFormat:        cfg.AudioFormat,
		cookiesFromBrowser: cfg.CookiesFromBrowser,
		retryCfg:           retry.DefaultConfig(),
		run:                execRunner,
	}
}

// CheckInstalled verifies that the yt-dlp binary is available.
func (d *YtdlpDownloader) CheckInstalled(ctx context.Context) error {
	if _, _, err := d.run(ctx, d.path, "--version"); err != nil {
		return fmt.Errorf("%w: %s", shared.ErrToolNotFound, d.path)
	}
	return nil
}

// Download fetches the best audio stream for a video into outDir.
//
// The file keeps whatever container yt-dlp picks (usually webm or m4a);
// baseName supplies the stem. Returns the absolute path of the written file.
func (d *YtdlpDownloader) Download(ctx context.Context, videoID, outDir, baseName string) (string, error) {
	template := filepath.Join(outDir, SanitizeFilename(baseName)+".%(ext)s")
	url := "https://music.youtube.com/watch?v=" + videoID

	var rawPath string

	format := "bestaudio"
	if d.audioFormat != "" {
		format = fmt.Sprintf("bestaudio[ext=%s]/bestaudio", d.audioFormat)
	}

	err := retry.Do(ctx, d.retryCfg, downloadErrorClassifier, func(ctx context.Context) error {
		args := []string{
			"-f", format,
			"-o", template,
			"--no-playlist",
			"--no-progress",
			"--no-warnings",
			"--no-simulate",
			"--print", "after_move:filepath",
		}
		if d.cookiesFromBrowser != "" {
			args = append(args, "--cookies-from-browser", d.cookiesFromBrowser)
		}
		args = append(args, url)

		cmdCtx, cancel := context.WithTimeout(ctx, d.timeout)
		defer cancel()

		stdout, stderr, err := d.run(cmdCtx, d.path, args...)
		if err != nil {
			if cmdCtx.Err() == context.DeadlineExceeded {
				return fmt.Errorf("%w: download timed out for %s", shared.ErrTimeout, videoID)
			}
			if cmdCtx.Err() == context.Canceled {
				return context.Canceled
			}

			errMsg := strings.TrimSpace(string(stderr))
			if strings.Contains(errMsg, "Video unavailable") || strings.Contains(errMsg, "Private video") {
				return fmt.Errorf("%w: %s: %s", shared.ErrDownloadFailed, videoID, errMsg)
			}
			if strings.Contains(errMsg, "executable file not found") {
				return fmt.Errorf("%w: %s", shared.ErrToolNotFound, d.path)
			}

			return fmt.Errorf("%w: %s: %s", shared.ErrDownloadFailed, videoID, errMsg)
		}

		rawPath = strings.TrimSpace(string(stdout))
		if rawPath == "" {
			return fmt.Errorf("%w: yt-dlp reported no output file for %s", shared.ErrDownloadFailed, videoID)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return rawPath, nil
}

// downloadErrorClassifier refuses to retry videos that will never become available.
func downloadErrorClassifier(err error) bool {
	msg := err.Error()
	if strings.Contains(msg, "Video unavailable") || strings.Contains(msg, "Private video") {
		return false
	}
	return retry.IsRetryable(err)
}
