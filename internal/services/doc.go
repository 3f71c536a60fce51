// Package services defines the shared error taxonomy and request-scoped
// context helpers used across the transcription pipeline. Each pipeline
// stage tags its failures with one of the exported sentinel errors; the
// HTTP layer maps them to response codes in exactly one place.
package services
