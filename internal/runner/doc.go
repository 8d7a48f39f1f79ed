// Package runner owns the lifecycle of one merge run: source validation,
// locking, preflight, scanning, dispatch, reporting, and history.
package runner
