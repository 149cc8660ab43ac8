// Package config loads, normalizes, and validates the TOML configuration
// shared by every photopost command.
//
// Load resolves the config path (explicit flag, ~/.config/photopost, or a
// project-local photopost.toml), applies defaults for missing values,
// expands ~ in paths, pulls secrets from environment variables, and rejects
// unusable settings before any command runs.
package config
