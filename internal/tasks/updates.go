package tasks

import (
	"fmt"

	"github.com/russellkim98/RKADE-sync/internal/services"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchSource Phase = iota
	SearchCandidates
	DownloadTrack
	TranscodeTrack
	ArchiveTrack
	SkipTrack
	Compare
	ExportPlaylist
)

func (p Phase) String() string {
	switch p {
	case FetchSource:
		return "fetch_source"
	case SearchCandidates:
		return "search_candidates"
	case DownloadTrack:
		return "download"
	case TranscodeTrack:
		return "transcode"
	case ArchiveTrack:
		return "archive"
	case SkipTrack:
		return "skip"
	case Compare:
		return "compare"
	case ExportPlaylist:
		return "export_playlist"
	default:
		return ""
	}
}

func fetchingSourceUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSource,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching playlist from Spotify (%s)...", name),
	}
}

func foundPlaylistUpdate(export *services.PlaylistExport) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSource,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found playlist: %s (%d tracks)", export.Playlist.Name, len(export.Tracks)),
		Data:    export,
	}
}

func searchUpdate(step, total int, track services.Track) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchCandidates,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Searching: %s - %s", step, total, track.Artist, track.Title),
	}
}

func downloadUpdate(step, total int, track services.Track, videoID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadTrack,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Downloading: %s - %s (%s)", step, total, track.Artist, track.Title, videoID),
	}
}

func transcodeUpdate(step, total int, track services.Track) ProgressUpdate {
	return ProgressUpdate{
		Phase:   TranscodeTrack,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Transcoding: %s - %s", step, total, track.Artist, track.Title),
	}
}

func skipUpdate(step, total int, track services.Track) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SkipTrack,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Already downloaded: %s - %s", step, total, track.Artist, track.Title),
	}
}

func failedTrackUpdate(step, total int, track services.Track, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ArchiveTrack,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s - %s: %v", step, total, track.Artist, track.Title, err),
	}
}

func archivedTrackUpdate(step, total int, track services.Track, score float64) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ArchiveTrack,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s - %s (score %.1f)", step, total, track.Artist, track.Title, score),
	}
}

func compareUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Compare,
		Step:    step,
		Total:   total,
		Message: "Comparing playlist against archive...",
	}
}

func exportingPlaylistUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, name),
	}
}

func exportCompletedUpdate(step, total int, name string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, name, filesCount),
	}
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}
