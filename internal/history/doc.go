// Package history records completed merge runs in a local SQLite
// database. Recording is best effort; a failure here never fails a run.
package history
