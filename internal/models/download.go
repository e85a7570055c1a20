package models

import (
	"fmt"
	"time"
)

// Download records a single track downloaded into the local library.
//
// A download links a source video to the Spotify track it was matched against,
// the playlist it was synced for, and the raw and transcoded files on disk.
// The video ID doubles as the archive key: a track is never fetched twice.
type Download struct {
	id         string
	sequence   int
	videoID    string
	trackID    string
	title      string
	artist     string
	album      string
	playlist   string
	rawPath    string
	cleanPath  string
	duration   int
	matchScore float64
	createdAt  time.Time
	updatedAt  time.Time
	deletedAt  *time.Time
}

// NewDownload creates a Download for a matched track.
//
// The ID and sequence are assigned by the repository on Create.
func NewDownload(videoID, trackID, title, artist, album, playlist string) *Download {
	now := time.Now()
	return &Download{
		videoID:   videoID,
		trackID:   trackID,
		title:     title,
		artist:    artist,
		album:     album,
		playlist:  playlist,
		createdAt: now,
		updatedAt: now,
	}
}

func (d *Download) ID() string           { return d.id }
func (d *Download) Sequence() int        { return d.sequence }
func (d *Download) VideoID() string      { return d.videoID }
func (d *Download) TrackID() string      { return d.trackID }
func (d *Download) Title() string        { return d.title }
func (d *Download) Artist() string       { return d.artist }
func (d *Download) Album() string        { return d.album }
func (d *Download) Playlist() string     { return d.playlist }
func (d *Download) RawPath() string      { return d.rawPath }
func (d *Download) CleanPath() string    { return d.cleanPath }
func (d *Download) Duration() int        { return d.duration }
func (d *Download) MatchScore() float64  { return d.matchScore }
func (d *Download) CreatedAt() time.Time { return d.createdAt }
func (d *Download) UpdatedAt() time.Time { return d.updatedAt }
func (d *Download) DeletedAt() *time.Time { return d.deletedAt }

func (d *Download) SetID(id string)             { d.id = id }
func (d *Download) SetSequence(seq int)         { d.sequence = seq }
func (d *Download) SetRawPath(p string)         { d.rawPath = p }
func (d *Download) SetCleanPath(p string)       { d.cleanPath = p }
func (d *Download) SetDuration(seconds int)     { d.duration = seconds }
func (d *Download) SetMatchScore(score float64) { d.matchScore = score }
func (d *Download) SetCreatedAt(t time.Time)    { d.createdAt = t }
func (d *Download) SetUpdatedAt(t time.Time)    { d.updatedAt = t }
func (d *Download) SetDeletedAt(t *time.Time)   { d.deletedAt = t }

// Validate checks that the download has the fields required for archiving.
func (d *Download) Validate() error {
	if d.videoID == "" {
		return fmt.Errorf("download video_id is required")
	}
	if d.title == "" {
		return fmt.Errorf("download title is required")
	}
	if d.matchScore < 0 || d.matchScore > 100 {
		return fmt.Errorf("download match_score must be between 0 and 100, got %f", d.matchScore)
	}
	return nil
}

// IsDeleted reports whether the download has been soft-deleted.
func (d *Download) IsDeleted() bool {
	return d.deletedAt != nil
}
