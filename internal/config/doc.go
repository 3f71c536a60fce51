// Package config loads, normalizes, and validates whisperd configuration
// from a TOML file with environment-variable overrides.
package config
