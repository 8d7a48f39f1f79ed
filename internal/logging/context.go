package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for merge run identifiers.
	FieldRunID = "run_id"
	// FieldFrame is the standardized structured logging key for frame numbers.
	FieldFrame = "frame"
	// FieldEventType is the standardized structured logging key for machine-readable event names.
	FieldEventType = "event_type"
	// FieldStatus is the standardized structured logging key for frame outcome statuses.
	FieldStatus = "status"
	// FieldOutput is the standardized structured logging key for written output paths.
	FieldOutput = "output"
)

type contextKey int

const (
	runIDKey contextKey = iota
	frameKey
)

// WithRun stores the run identifier on the context.
func WithRun(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// WithFrame stores the frame number on the context.
func WithFrame(ctx context.Context, frame int) context.Context {
	return context.WithValue(ctx, frameKey, frame)
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if runID, ok := ctx.Value(runIDKey).(string); ok && runID != "" {
		fields = append(fields, slog.String(FieldRunID, runID))
	}
	if frame, ok := ctx.Value(frameKey).(int); ok {
		fields = append(fields, slog.Int(FieldFrame, frame))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived
// from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
