// Package queue persists job records in SQLite so callers can inspect
// current and past submissions.
package queue
