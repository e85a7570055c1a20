package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/russellkim98/RKADE-sync/internal/models"
	"github.com/russellkim98/RKADE-sync/internal/shared"
)

// DownloadRepository implements models.Repository[*models.Download] for the download archive.
//
// Every successfully synced track is recorded here. The unique index on
// video_id makes the table double as yt-dlp's download archive: a video that
// appears in the archive is skipped on subsequent runs.
type DownloadRepository struct {
	db *sql.DB
}

// NewDownloadRepository creates a new DownloadRepository with the given database connection
func NewDownloadRepository(db *sql.DB) *DownloadRepository {
	return &DownloadRepository{db: db}
}

// Create inserts a new [models.Download] into the database with generated ID and sequence
func (r *DownloadRepository) Create(download *models.Download) error {
	sequence, err := NextSequence(r.db, "downloads")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	download.SetID(id)
	download.SetSequence(sequence)

	if err := download.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO downloads (id, sequence, video_id, track_id, title, artist, album, playlist, raw_path, clean_path, duration, match_score, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		download.VideoID(),
		download.TrackID(),
		download.Title(),
		download.Artist(),
		download.Album(),
		download.Playlist(),
		download.RawPath(),
		download.CleanPath(),
		download.Duration(),
		download.MatchScore(),
		download.CreatedAt(),
		download.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert download: %w", err)
	}

	return nil
}

// Get retrieves a download by ID, excluding soft-deleted downloads
func (r *DownloadRepository) Get(id string) (*models.Download, error) {
	query := `
		SELECT id, sequence, video_id, track_id, title, artist, album, playlist, raw_path, clean_path, duration, match_score, created_at, updated_at, deleted_at
		FROM downloads
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByVideoID retrieves a download by its source video ID
func (r *DownloadRepository) GetByVideoID(videoID string) (*models.Download, error) {
	query := `
		SELECT id, sequence, video_id, track_id, title, artist, album, playlist, raw_path, clean_path, duration, match_score, created_at, updated_at, deleted_at
		FROM downloads
		WHERE video_id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, videoID))
}

// GetByTrackID retrieves a download by the Spotify track it was matched against
func (r *DownloadRepository) GetByTrackID(trackID string) (*models.Download, error) {
	query := `
		SELECT id, sequence, video_id, track_id, title, artist, album, playlist, raw_path, clean_path, duration, match_score, created_at, updated_at, deleted_at
		FROM downloads
		WHERE track_id = ? AND deleted_at IS NULL
		LIMIT 1
	`

	return r.scanOne(r.db.QueryRow(query, trackID))
}

// Update modifies an existing download in the database
func (r *DownloadRepository) Update(download *models.Download) error {
	if err := download.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	download.SetUpdatedAt(now)

	query := `
		UPDATE downloads
		SET title = ?, artist = ?, album = ?, playlist = ?, raw_path = ?, clean_path = ?, duration = ?, match_score = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		download.Title(),
		download.Artist(),
		download.Album(),
		download.Playlist(),
		download.RawPath(),
		download.CleanPath(),
		download.Duration(),
		download.MatchScore(),
		now,
		download.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update download: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("download not found or already deleted: %s", download.ID())
	}

	return nil
}

// Delete soft-deletes a download by ID
func (r *DownloadRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE downloads
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete download: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("download not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all downloads matching the given criteria, excluding soft-deleted downloads
func (r *DownloadRepository) List(criteria map[string]any) ([]*models.Download, error) {
	query := `
		SELECT id, sequence, video_id, track_id, title, artist, album, playlist, raw_path, clean_path, duration, match_score, created_at, updated_at, deleted_at
		FROM downloads
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if playlist, ok := criteria["playlist"].(string); ok && playlist != "" {
		query += " AND playlist = ?"
		args = append(args, playlist)
	}

	if artist, ok := criteria["artist"].(string); ok && artist != "" {
		query += " AND artist = ?"
		args = append(args, artist)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query downloads: %w", err)
	}
	defer rows.Close()

	var downloads []*models.Download
	for rows.Next() {
		download, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		downloads = append(downloads, download)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return downloads, nil
}

// scanOne scans a single [sql.Row] into a [models.Download]
func (r *DownloadRepository) scanOne(row *sql.Row) (*models.Download, error) {
	download, err := scanDownload(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("download not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan download: %w", err)
	}
	return download, nil
}

// scanRow scans a row from [sql.Rows] into a [models.Download]
func (r *DownloadRepository) scanRow(rows *sql.Rows) (*models.Download, error) {
	download, err := scanDownload(rows.Scan)
	if err != nil {
		return nil, fmt.Errorf("failed to scan download: %w", err)
	}
	return download, nil
}

func scanDownload(scan func(dest ...any) error) (*models.Download, error) {
	var (
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
		deletedAt  sql.NullTime
	)

	err := scan(&id, &sequence, &videoID, &trackID, &title, &artist, &album, &playlist, &rawPath, &cleanPath, &duration, &matchScore, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	download := models.NewDownload(videoID, trackID, title, artist, album, playlist)
	download.SetID(id)
	download.SetSequence(sequence)
	download.SetRawPath(rawPath)
	download.SetCleanPath(cleanPath)
	download.SetDuration(duration)
	download.SetMatchScore(matchScore)
	download.SetCreatedAt(createdAt)
	download.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		download.SetDeletedAt(&deletedAt.Time)
	}

	return download, nil
}
