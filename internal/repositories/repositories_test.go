package repositories

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/russellkim98/RKADE-sync/internal/models"
	"github.com/russellkim98/RKADE-sync/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func testDownload(videoID, playlist string) *models.Download {
	d := models.NewDownload(videoID, "spotify-"+videoID, "Test Track", "Test Artist", "Test Album", playlist)
	d.SetDuration(215)
	d.SetMatchScore(87.5)
	return d
}

func TestDownloadRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewDownloadRepository(db)
		download := testDownload("vid001", "rekordbox_house")

		if err := repo.Create(download); err != nil {
			t.Fatalf("failed to create download: %v", err)
		}

		if download.ID() == "" {
			t.Error("download ID should be set after creation")
		}
		if download.Sequence() == 0 {
			t.Error("download sequence should be set after creation")
		}
	})

	t.Run("Create Duplicate Video ID", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewDownloadRepository(db)
		if err := repo.Create(testDownload("vid001", "rekordbox_house")); err != nil {
			t.Fatalf("failed to create download: %v", err)
		}

		err := repo.Create(testDownload("vid001", "rekordbox_techno"))
		if err == nil {
			t.Fatal("expected unique constraint error for duplicate video_id")
		}
		if !strings.Contains(err.Error(), "UNIQUE constraint") {
			t.Errorf("expected UNIQUE constraint error, got: %v", err)
		}
	})

	t.Run("Get And GetByVideoID", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewDownloadRepository(db)
		download := testDownload("vid002", "rekordbox_house")
		if err := repo.Create(download); err != nil {
			t.Fatalf("failed to create download: %v", err)
		}

		got, err := repo.Get(download.ID())
		if err != nil {
			t.Fatalf("failed to get download: %v", err)
		}
		if got.VideoID() != "vid002" {
			t.Errorf("expected video ID vid002, got %s", got.VideoID())
		}
		if got.MatchScore() != 87.5 {
			t.Errorf("expected match score 87.5, got %f", got.MatchScore())
		}

		byVideo, err := repo.GetByVideoID("vid002")
		if err != nil {
			t.Fatalf("failed to get download by video ID: %v", err)
		}
		if byVideo.ID() != download.ID() {
			t.Errorf("expected same download, got %s and %s", byVideo.ID(), download.ID())
		}

		if _, err := repo.GetByVideoID("missing"); err == nil {
			t.Error("expected error for missing video ID")
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewDownloadRepository(db)
		download := testDownload("vid003", "rekordbox_house")
		if err := repo.Create(download); err != nil {
			t.Fatalf("failed to create download: %v", err)
		}

		download.SetCleanPath("/music/clean/rekordbox_house/Test Artist - Test Track.mp3")
		if err := repo.Update(download); err != nil {
			t.Fatalf("failed to update download: %v", err)
		}

		got, err := repo.Get(download.ID())
		if err != nil {
			t.Fatalf("failed to get download: %v", err)
		}
		if got.CleanPath() == "" {
			t.Error("expected clean path to be persisted")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewDownloadRepository(db)
		download := testDownload("vid004", "rekordbox_house")
		if err := repo.Create(download); err != nil {
			t.Fatalf("failed to create download: %v", err)
		}

		if err := repo.Delete(download.ID()); err != nil {
			t.Fatalf("failed to delete download: %v", err)
		}

		if _, err := repo.Get(download.ID()); err == nil {
			t.Error("expected error getting soft-deleted download")
		}

		if err := repo.Delete(download.ID()); err == nil {
			t.Error("expected error deleting already-deleted download")
		}
	})

	t.Run("List By Playlist", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewDownloadRepository(db)
		for i, playlist := range []string{"rekordbox_house", "rekordbox_house", "rekordbox_techno"} {
			d := testDownload("vid10"+string(rune('0'+i)), playlist)
			if err := repo.Create(d); err != nil {
				t.Fatalf("failed to create download: %v", err)
			}
		}

		house, err := repo.List(map[string]any{"playlist": "rekordbox_house"})
		if err != nil {
			t.Fatalf("failed to list downloads: %v", err)
		}
		if len(house) != 2 {
			t.Errorf("expected 2 downloads in rekordbox_house, got %d", len(house))
		}

		all, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list all downloads: %v", err)
		}
		if len(all) != 3 {
			t.Errorf("expected 3 downloads, got %d", len(all))
		}

		for i := 1; i < len(all); i++ {
			if all[i].Sequence() <= all[i-1].Sequence() {
				t.Error("expected downloads ordered by sequence")
			}
		}
	})
}

func TestRunRepository(t *testing.T) {
	t.Run("Create And Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewRunRepository(db)
		run := models.NewSyncRun("rekordbox_house", 25)

		if err := repo.Create(run); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}

		got, err := repo.Get(run.ID())
		if err != nil {
			t.Fatalf("failed to get run: %v", err)
		}
		if got.Playlist() != "rekordbox_house" {
			t.Errorf("expected playlist rekordbox_house, got %s", got.Playlist())
		}
		if got.Status() != models.RunStatusPending {
			t.Errorf("expected pending status, got %s", got.Status())
		}
		if got.StartedAt() != nil {
			t.Error("expected nil started_at for pending run")
		}
	})

	t.Run("Update Lifecycle", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewRunRepository(db)
		run := models.NewSyncRun("rekordbox_house", 25)
		if err := repo.Create(run); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}

		run.Start()
		if err := repo.Update(run); err != nil {
			t.Fatalf("failed to update running run: %v", err)
		}

		run.Complete(20, 4, 1)
		if err := repo.Update(run); err != nil {
			t.Fatalf("failed to update completed run: %v", err)
		}

		got, err := repo.Get(run.ID())
		if err != nil {
			t.Fatalf("failed to get run: %v", err)
		}
		if got.Status() != models.RunStatusCompleted {
			t.Errorf("expected completed status, got %s", got.Status())
		}
		if got.Downloaded() != 20 || got.Skipped() != 4 || got.Failed() != 1 {
			t.Errorf("unexpected counters: %d/%d/%d", got.Downloaded(), got.Skipped(), got.Failed())
		}
		if got.StartedAt() == nil || got.FinishedAt() == nil {
			t.Error("expected started_at and finished_at to be persisted")
		}
	})

	t.Run("List Newest First", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewRunRepository(db)
		for range 3 {
			if err := repo.Create(models.NewSyncRun("rekordbox_house", 10)); err != nil {
				t.Fatalf("failed to create run: %v", err)
			}
		}

		runs, err := repo.List(map[string]any{"playlist": "rekordbox_house"})
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 3 {
			t.Fatalf("expected 3 runs, got %d", len(runs))
		}
		for i := 1; i < len(runs); i++ {
			if runs[i].Sequence() >= runs[i-1].Sequence() {
				t.Error("expected runs ordered newest first")
			}
		}
	})

	t.Run("List By Status", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewRunRepository(db)
		done := models.NewSyncRun("rekordbox_house", 10)
		if err := repo.Create(done); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}
		done.Start()
		done.Complete(10, 0, 0)
		if err := repo.Update(done); err != nil {
			t.Fatalf("failed to update run: %v", err)
		}

		if err := repo.Create(models.NewSyncRun("rekordbox_house", 5)); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}

		completed, err := repo.List(map[string]any{"status": string(models.RunStatusCompleted)})
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(completed) != 1 {
			t.Errorf("expected 1 completed run, got %d", len(completed))
		}
	})
}

func TestArchiveAdapter(t *testing.T) {
	t.Run("Record And Contains", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		adapter := NewArchiveAdapter(NewDownloadRepository(db))

		if adapter.Contains("vid001") {
			t.Error("empty archive should not contain vid001")
		}

		if err := adapter.Record(testDownload("vid001", "rekordbox_house")); err != nil {
			t.Fatalf("failed to record download: %v", err)
		}

		if !adapter.Contains("vid001") {
			t.Error("archive should contain vid001 after record")
		}

		if err := adapter.Record(testDownload("vid001", "rekordbox_techno")); !errors.Is(err, shared.ErrAlreadyDownloaded) {
			t.Errorf("expected already downloaded error for duplicate record, got %v", err)
		}

		if !adapter.ContainsTrack("spotify-vid001") {
			t.Error("archive should contain the Spotify track after record")
		}
		if adapter.ContainsTrack("") {
			t.Error("empty track ID should never match")
		}
	})

	t.Run("WriteArchiveFile", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		adapter := NewArchiveAdapter(NewDownloadRepository(db))
		for _, id := range []string{"vid001", "vid002"} {
			if err := adapter.Record(testDownload(id, "rekordbox_house")); err != nil {
				t.Fatalf("failed to record download: %v", err)
			}
		}

		path := filepath.Join(t.TempDir(), "archive.txt")
		if err := adapter.WriteArchiveFile(path); err != nil {
			t.Fatalf("failed to write archive file: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read archive file: %v", err)
		}

		content := string(data)
		if !strings.Contains(content, "youtube vid001") || !strings.Contains(content, "youtube vid002") {
			t.Errorf("unexpected archive contents:\n%s", content)
		}
	})
}
