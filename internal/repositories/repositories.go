// package repositories provides sqlite persistence for the download archive
// and sync run history.
//
// Each repository implements models.Repository[T] for one entity, with soft
// deletes and monotonic sequence numbers assigned on insert.
package repositories

import (
	"database/sql"
	"fmt"
)

// NextSequence increments and returns the counter row backing <table>_sequence.
//
// Sequence numbers give downloads and runs a stable, human-readable ordering
// (download #42, run #15) independent of their uuid primary keys. The
// update-then-select runs in one transaction so concurrent inserts never
// observe the same value.
func NextSequence(db *sql.DB, table string) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	counter := table + "_sequence"

	if _, err := tx.Exec("UPDATE " + counter + " SET value = value + 1 WHERE id = 1"); err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	var seq int
	if err := tx.QueryRow("SELECT value FROM " + counter + " WHERE id = 1").Scan(&seq); err != nil {
		return 0, fmt.Errorf("failed to read sequence value: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sequence transaction: %w", err)
	}

	return seq, nil
}
