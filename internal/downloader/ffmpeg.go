package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/russellkim98/RKADE-sync/internal/shared"
)

const (
	defaultFFmpegPath  = "ffmpeg"
	defaultFFprobePath = "ffprobe"
	defaultBitrate     = "256k"

	transcodeTimeout = 10 * time.Minute
)

// Tags holds the ID3 metadata written during transcoding.
type Tags struct {
	Title    string
	Artist   string
	Album    string
	Playlist string
}

// Transcoder converts raw audio streams to tagged MP3s using ffmpeg.
type Transcoder struct {
	ffmpegPath  string
	ffprobePath string
	bitrate     string
	httpClient  *http.Client
	run         commandRunner
}

// NewTranscoder creates a Transcoder from downloader settings.
func NewTranscoder(cfg shared.DownloaderConfig) *Transcoder {
	ffmpegPath := cfg.FFmpegPath
	if ffmpegPath == "" {
		ffmpegPath = defaultFFmpegPath
	}

	bitrate := cfg.Bitrate
	if bitrate == "" {
		bitrate = defaultBitrate
	}

	return &Transcoder{
		ffmpegPath:  ffmpegPath,
		ffprobePath: defaultFFprobePath,
		bitrate:     bitrate,
		httpClient:  http.DefaultClient,
		run:         execRunner,
	}
}

// CheckInstalled verifies that the ffmpeg binary is available.
func (t *Transcoder) CheckInstalled(ctx context.Context) error {
	if _, _, err := t.run(ctx, t.ffmpegPath, "-version"); err != nil {
		return fmt.Errorf("%w: %s", shared.ErrToolNotFound, t.ffmpegPath)
	}
	return nil
}

// Transcode converts inputPath to a tagged MP3 at outputPath.
//
// When coverURL is non-empty the image is fetched and embedded as the front
// cover. A failed cover fetch degrades to an untagged-art transcode rather
// than failing the track.
func (t *Transcoder) Transcode(ctx context.Context, inputPath, outputPath string, tags Tags, coverURL string) error {
	coverPath := ""
	if coverURL != "" {
		if p, err := t.fetchCover(ctx, coverURL); err == nil {
			coverPath = p
			defer os.Remove(coverPath)
		}
	}

	args := t.BuildFFmpegArgs(inputPath, outputPath, tags, coverPath)

	cmdCtx, cancel := context.WithTimeout(ctx, transcodeTimeout)
	defer cancel()

	_, stderr, err := t.run(cmdCtx, t.ffmpegPath, args...)
	if err != nil {
		os.Remove(outputPath)

		if cmdCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("%w: transcode timed out for %s", shared.ErrTimeout, inputPath)
		}

		errMsg := strings.TrimSpace(string(stderr))
		if strings.Contains(errMsg, "executable file not found") {
			return fmt.Errorf("%w: %s", shared.ErrToolNotFound, t.ffmpegPath)
		}

		return fmt.Errorf("%w: %s: %s", shared.ErrTranscodeFailed, inputPath, errMsg)
	}

	return nil
}

// BuildFFmpegArgs builds the ffmpeg command arguments.
func (t *Transcoder) BuildFFmpegArgs(inputPath, outputPath string, tags Tags, coverPath string) []string {
	args := []string{
		"-y",
		"-i", inputPath,
	}

	if coverPath != "" {
		args = append(args,
			"-i", coverPath,
			"-map", "0:a",
			"-map", "1:0",
			"-c:v", "mjpeg",
			"-disposition:v", "attached_pic",
			"-metadata:s:v", "title=Album cover",
			"-metadata:s:v", "comment=Cover (front)",
		)
	} else {
		args = append(args, "-map", "0:a")
	}

	args = append(args,
		"-c:a", "libmp3lame",
		"-b:a", t.bitrate,
		"-id3v2_version", "3",
		"-metadata", "title="+tags.Title,
		"-metadata", "artist="+tags.Artist,
		"-metadata", "album="+tags.Album,
		"-metadata", "playlist="+tags.Playlist,
		"-nostats",
		outputPath,
	)

	return args
}

// Duration probes the audio duration of a file in seconds.
func (t *Transcoder) Duration(ctx context.Context, path string) (int, error) {
	stdout, _, err := t.run(ctx, t.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "csv=p=0",
		path,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to run ffprobe: %w", err)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(stdout)), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}

	return int(seconds), nil
}

// fetchCover downloads artwork to a temp file for embedding.
func (t *Transcoder) fetchCover(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", err
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("cover fetch failed: status %d", resp.StatusCode)
	}

	f, err := os.CreateTemp("", "rkade-cover-*"+coverExtension(url))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(f.Name())
		return "", err
	}

	return f.Name(), nil
}

func coverExtension(url string) string {
	switch ext := strings.ToLower(filepath.Ext(url)); ext {
	case ".jpg", ".jpeg", ".png", ".webp":
		return ext
	default:
		return ".jpg"
	}
}
