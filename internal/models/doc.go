// Package models defines domain entities and persistence interfaces for the RKADE library sync service.
//
// Persistent entities are database-backed models with full lifecycle management:
//   - [Download] : Archived tracks linking a source video to the matched Spotify track and local files
//   - [SyncRun] : Sync pipeline executions with per-playlist counters and status
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
