package models

import (
	"fmt"
	"time"
)

// RunStatus represents the lifecycle state of a sync run.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// SyncRun records one execution of the sync pipeline for a single playlist.
//
// Counters track how each playlist track resolved: downloaded, skipped
// (already in the archive or below the match threshold), or failed.
type SyncRun struct {
	id          string
	sequence    int
	playlist    string
	status      RunStatus
	totalTracks int
	downloaded  int
	skipped     int
	failed      int
	startedAt   *time.Time
	finishedAt  *time.Time
	errorMsg    string
	createdAt   time.Time
	updatedAt   time.Time
	deletedAt   *time.Time
}

// NewSyncRun creates a pending SyncRun for the named playlist.
func NewSyncRun(playlist string, totalTracks int) *SyncRun {
	now := time.Now()
	return &SyncRun{
		playlist:    playlist,
		status:      RunStatusPending,
		totalTracks: totalTracks,
		createdAt:   now,
		updatedAt:   now,
	}
}

func (r *SyncRun) ID() string            { return r.id }
func (r *SyncRun) Sequence() int         { return r.sequence }
func (r *SyncRun) Playlist() string      { return r.playlist }
func (r *SyncRun) Status() RunStatus     { return r.status }
func (r *SyncRun) TotalTracks() int      { return r.totalTracks }
func (r *SyncRun) Downloaded() int       { return r.downloaded }
func (r *SyncRun) Skipped() int          { return r.skipped }
func (r *SyncRun) Failed() int           { return r.failed }
func (r *SyncRun) StartedAt() *time.Time { return r.startedAt }
func (r *SyncRun) FinishedAt() *time.Time { return r.finishedAt }
func (r *SyncRun) Error() string         { return r.errorMsg }
func (r *SyncRun) CreatedAt() time.Time  { return r.createdAt }
func (r *SyncRun) UpdatedAt() time.Time  { return r.updatedAt }
func (r *SyncRun) DeletedAt() *time.Time { return r.deletedAt }

func (r *SyncRun) SetID(id string)           { r.id = id }
func (r *SyncRun) SetSequence(seq int)       { r.sequence = seq }
func (r *SyncRun) SetTotalTracks(n int)      { r.totalTracks = n }
func (r *SyncRun) SetCreatedAt(t time.Time)  { r.createdAt = t }
func (r *SyncRun) SetUpdatedAt(t time.Time)  { r.updatedAt = t }
func (r *SyncRun) SetDeletedAt(t *time.Time) { r.deletedAt = t }
func (r *SyncRun) SetCounts(downloaded, skipped, failed int) {
	r.downloaded = downloaded
	r.skipped = skipped
	r.failed = failed
}
func (r *SyncRun) SetStartedAt(t *time.Time)  { r.startedAt = t }
func (r *SyncRun) SetFinishedAt(t *time.Time) { r.finishedAt = t }
func (r *SyncRun) SetStatusRaw(s RunStatus)   { r.status = s }
func (r *SyncRun) SetError(msg string)        { r.errorMsg = msg }

// Start transitions the run to running and records the start time.
func (r *SyncRun) Start() {
	now := time.Now()
	r.status = RunStatusRunning
	r.startedAt = &now
	r.updatedAt = now
}

// Complete transitions the run to completed with final counters.
func (r *SyncRun) Complete(downloaded, skipped, failed int) {
	now := time.Now()
	r.status = RunStatusCompleted
	r.downloaded = downloaded
	r.skipped = skipped
	r.failed = failed
	r.finishedAt = &now
	r.updatedAt = now
}

// Fail transitions the run to failed and records the error message.
func (r *SyncRun) Fail(err error) {
	now := time.Now()
	r.status = RunStatusFailed
	if err != nil {
		r.errorMsg = err.Error()
	}
	r.finishedAt = &now
	r.updatedAt = now
}

// Validate checks that the run references a playlist and carries a known status.
func (r *SyncRun) Validate() error {
	if r.playlist == "" {
		return fmt.Errorf("sync run playlist is required")
	}

	switch r.status {
	case RunStatusPending, RunStatusRunning, RunStatusCompleted, RunStatusFailed:
	default:
		return fmt.Errorf("invalid run status: %s", r.status)
	}

	if r.totalTracks < 0 {
		return fmt.Errorf("sync run total_tracks must be non-negative")
	}

	return nil
}

// IsDeleted reports whether the run has been soft-deleted.
func (r *SyncRun) IsDeleted() bool {
	return r.deletedAt != nil
}

// IsTerminal reports whether the run has finished, successfully or not.
func (r *SyncRun) IsTerminal() bool {
	return r.status == RunStatusCompleted || r.status == RunStatusFailed
}
