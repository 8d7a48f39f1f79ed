// Package logging centralizes slog construction and the structured field
// conventions used across the engine. Attribute helpers keep call sites
// terse and field-name constants keep keys consistent between the console
// stream, the JSON stream, and the run history.
package logging
