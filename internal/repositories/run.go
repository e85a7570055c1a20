package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/russellkim98/RKADE-sync/internal/models"
	"github.com/russellkim98/RKADE-sync/internal/shared"
)

// RunRepository implements models.Repository[*models.SyncRun] for sync run history.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new [models.SyncRun] into the database with generated ID and sequence
func (r *RunRepository) Create(run *models.SyncRun) error {
	sequence, err := NextSequence(r.db, "runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	run.SetID(id)
	run.SetSequence(sequence)

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO runs (id, sequence, playlist, status, total_tracks, downloaded, skipped, failed, started_at, finished_at, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		run.Playlist(),
		string(run.Status()),
		run.TotalTracks(),
		run.Downloaded(),
		run.Skipped(),
		run.Failed(),
		nullableTime(run.StartedAt()),
		nullableTime(run.FinishedAt()),
		run.Error(),
		run.CreatedAt(),
		run.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// Get retrieves a run by ID, excluding soft-deleted runs
func (r *RunRepository) Get(id string) (*models.SyncRun, error) {
	query := `
		SELECT id, sequence, playlist, status, total_tracks, downloaded, skipped, failed, started_at, finished_at, error, created_at, updated_at, deleted_at
		FROM runs
		WHERE id = ? AND deleted_at IS NULL
	`

	run, err := scanRun(r.db.QueryRow(query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	return run, nil
}

// Update modifies an existing run in the database
func (r *RunRepository) Update(run *models.SyncRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	run.SetUpdatedAt(now)

	query := `
		UPDATE runs
		SET status = ?, total_tracks = ?, downloaded = ?, skipped = ?, failed = ?, started_at = ?, finished_at = ?, error = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		string(run.Status()),
		run.TotalTracks(),
		run.Downloaded(),
		run.Skipped(),
		run.Failed(),
		nullableTime(run.StartedAt()),
		nullableTime(run.FinishedAt()),
		run.Error(),
		now,
		run.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run not found or already deleted: %s", run.ID())
	}

	return nil
}

// Delete soft-deletes a run by ID
func (r *RunRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE runs
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all runs matching the given criteria, excluding soft-deleted runs.
//
// Results are ordered newest first so the latest run for a playlist is always first.
func (r *RunRepository) List(criteria map[string]any) ([]*models.SyncRun, error) {
	query := `
		SELECT id, sequence, playlist, status, total_tracks, downloaded, skipped, failed, started_at, finished_at, error, created_at, updated_at, deleted_at
		FROM runs
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if playlist, ok := criteria["playlist"].(string); ok && playlist != "" {
		query += " AND playlist = ?"
		args = append(args, playlist)
	}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	query += " ORDER BY sequence DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.SyncRun
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

func scanRun(scan func(dest ...any) error) (*models.SyncRun, error) {
	var (
		id          string
		sequence    int
		playlist    string
		status      string
		totalTracks int
		downloaded  int
		skipped     int
		failed      int
		startedAt   sql.NullTime
		finishedAt  sql.NullTime
		errorMsg    string
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := scan(&id, &sequence, &playlist, &status, &totalTracks, &downloaded, &skipped, &failed, &startedAt, &finishedAt, &errorMsg, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	run := models.NewSyncRun(playlist, totalTracks)
	run.SetID(id)
	run.SetSequence(sequence)
	run.SetStatusRaw(models.RunStatus(status))
	run.SetCounts(downloaded, skipped, failed)
	run.SetCreatedAt(createdAt)
	run.SetUpdatedAt(updatedAt)
	if startedAt.Valid {
		run.SetStartedAt(&startedAt.Time)
	}
	if finishedAt.Valid {
		run.SetFinishedAt(&finishedAt.Time)
	}
	run.SetError(errorMsg)
	if deletedAt.Valid {
		run.SetDeletedAt(&deletedAt.Time)
	}

	return run, nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
