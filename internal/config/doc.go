// Package config loads, validates, and normalizes the TOML configuration
// file. All path fields are tilde-expanded and absolute after Load.
package config
