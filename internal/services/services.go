// package services defines interface Service for interacting with music providers
//
// Spotify (Web API), YouTube Music (via yt-dlp)
package services

import (
	"context"
)

// Service defines the interface for music service providers (Spotify, YouTube Music) that can enumerate playlists and look up tracks.
type Service interface {
	// Authenticate performs OAuth or tool-availability authentication with the service.
	// Returns an error if authentication fails.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// GetPlaylists retrieves all playlists for the authenticated user.
	GetPlaylists(ctx context.Context) ([]Playlist, error)

	// GetPlaylist retrieves a specific playlist by ID.
	GetPlaylist(ctx context.Context, playlistID string) (*Playlist, error)

	// ExportPlaylist exports a playlist with all its tracks.
	ExportPlaylist(ctx context.Context, playlistID string) (*PlaylistExport, error)

	// SearchTrack searches for a track by title and artist.
	// Returns the best match or an error if no match is found.
	SearchTrack(ctx context.Context, title, artist string) (*Track, error)

	// Name returns the name of the service (e.g., "Spotify", "YouTube Music")
	Name() string
}

// Playlist represents a music playlist from any service
type Playlist struct {
	ID          string
	Name        string
	Description string
	TrackCount  int
	Public      bool
}

// PlaylistExport represents a playlist with all its tracks
type PlaylistExport struct {
	Playlist Playlist
	Tracks   []Track
}

// Track represents a music track from any service
type Track struct {
	ID       string
	Title    string
	Artist   string
	Album    string
	Duration int    // Duration in seconds
	ISRC     string // International Standard Recording Code for matching
	ArtURL   string // Album or thumbnail art, embedded during transcoding
}

// Candidate represents a single search result from a video service.
//
// Candidates are raw and unranked. The matcher scores them against the
// Spotify track that triggered the search.
type Candidate struct {
	VideoID      string
	Title        string
	Uploader     string
	Duration     int // Duration in seconds
	ThumbnailURL string
}
