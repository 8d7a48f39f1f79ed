// Package scanner discovers per-group capture files in a source directory
// and groups them by frame. It is a pure directory read: headers are not
// opened and nothing is modified.
package scanner
