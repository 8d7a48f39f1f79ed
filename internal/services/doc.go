// Package services holds the sentinel error markers shared across the
// engine and the helper that wraps failures with component context.
package services
