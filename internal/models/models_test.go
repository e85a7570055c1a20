package models

import (
	"errors"
	"testing"
	"time"
)

func TestDownload(t *testing.T) {
	t.Run("Validate", func(t *testing.T) {
		tc := []struct {
			name    string
			mutate  func(*Download)
			wantErr bool
		}{
			{
				name:    "valid download",
				mutate:  func(d *Download) {},
				wantErr: false,
			},
			{
				name:    "missing video id",
				mutate:  func(d *Download) { d.videoID = "" },
				wantErr: true,
			},
			{
				name:    "missing title",
				mutate:  func(d *Download) { d.title = "" },
				wantErr: true,
			},
			{
				name:    "score out of range",
				mutate:  func(d *Download) { d.SetMatchScore(120) },
				wantErr: true,
			},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				d := NewDownload("dQw4w9WgXcQ", "4uLU6hMC", "Never Gonna Give You Up", "Rick Astley", "Whenever You Need Somebody", "rekordbox_pop")
				tt.mutate(d)

				err := d.Validate()
				if tt.wantErr && err == nil {
					t.Error("expected validation error, got nil")
				}
				if !tt.wantErr && err != nil {
					t.Errorf("unexpected validation error: %v", err)
				}
			})
		}
	})

	t.Run("Soft Delete", func(t *testing.T) {
		d := NewDownload("abc123", "", "Title", "Artist", "", "playlist")
		if d.IsDeleted() {
			t.Error("new download should not be deleted")
		}

		now := time.Now()
		d.SetDeletedAt(&now)
		if !d.IsDeleted() {
			t.Error("download should be deleted after SetDeletedAt")
		}
	})
}

func TestSyncRun(t *testing.T) {
	t.Run("Lifecycle", func(t *testing.T) {
		run := NewSyncRun("rekordbox_house", 25)

		if run.Status() != RunStatusPending {
			t.Errorf("expected pending status, got %s", run.Status())
		}
		if run.IsTerminal() {
			t.Error("pending run should not be terminal")
		}

		run.Start()
		if run.Status() != RunStatusRunning {
			t.Errorf("expected running status, got %s", run.Status())
		}
		if run.StartedAt() == nil {
			t.Error("expected started_at to be set")
		}

		run.Complete(20, 4, 1)
		if run.Status() != RunStatusCompleted {
			t.Errorf("expected completed status, got %s", run.Status())
		}
		if !run.IsTerminal() {
			t.Error("completed run should be terminal")
		}
		if run.Downloaded() != 20 || run.Skipped() != 4 || run.Failed() != 1 {
			t.Errorf("unexpected counters: %d/%d/%d", run.Downloaded(), run.Skipped(), run.Failed())
		}
		if run.FinishedAt() == nil {
			t.Error("expected finished_at to be set")
		}
	})

	t.Run("Fail", func(t *testing.T) {
		run := NewSyncRun("rekordbox_house", 10)
		run.Start()
		run.Fail(errors.New("spotify unavailable"))

		if run.Status() != RunStatusFailed {
			t.Errorf("expected failed status, got %s", run.Status())
		}
		if run.Error() != "spotify unavailable" {
			t.Errorf("expected error message, got %q", run.Error())
		}
		if !run.IsTerminal() {
			t.Error("failed run should be terminal")
		}
	})

	t.Run("Validate", func(t *testing.T) {
		run := NewSyncRun("", 5)
		if err := run.Validate(); err == nil {
			t.Error("expected error for empty playlist")
		}

		run = NewSyncRun("rekordbox_house", 5)
		if err := run.Validate(); err != nil {
			t.Errorf("unexpected validation error: %v", err)
		}

		run.SetStatusRaw("exploded")
		if err := run.Validate(); err == nil {
			t.Error("expected error for unknown status")
		}
	})
}
