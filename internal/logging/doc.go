// Package logging builds the process-wide slog logger with console and JSON
// handlers, standardized attribute helpers, and context-derived request
// fields.
package logging
