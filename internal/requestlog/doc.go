// Package requestlog persists one row per transcription attempt in a local
// SQLite database. The log is an operator audit trail, not a job queue:
// rows are append-only, reads are newest-first, and the database can be
// deleted at any time without affecting the service.
package requestlog
