// Command whisperd is the entry point for the local speech-to-text service:
// it serves the HTTP API and provides operator subcommands for status,
// recent transcription outcomes, and configuration management.
package main
