// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// All repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [DownloadRepository] : Download archive with video ID based deduplication
//   - [RunRepository] : Sync run history with per-playlist status tracking
//   - [ArchiveAdapter] : Archiver facade over DownloadRepository, exportable as a yt-dlp download archive file
//
// Sequence numbers provide stable, human-readable ordering (e.g., download #42, run #15) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
