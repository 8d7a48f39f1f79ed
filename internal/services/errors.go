package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks invalid invocation input, such as a missing
	// source directory. These abort a run before any frame is processed.
	ErrConfiguration = errors.New("configuration error")
	// ErrCodec marks an unavailable or broken container codec, detected by
	// the preflight self-check before dispatch.
	ErrCodec = errors.New("codec unavailable")
	// ErrValidation marks per-frame input inconsistencies such as a
	// resolution mismatch between sources of one frame.
	ErrValidation = errors.New("validation error")
	// ErrIO marks a per-frame read or write failure.
	ErrIO = errors.New("io error")
	// ErrTimeout marks a frame task that exceeded its deadline.
	ErrTimeout = errors.New("timeout")
	// ErrLocked marks a source directory already claimed by another run.
	ErrLocked = errors.New("already locked")
)

// Wrap builds an error message that includes component context while
// tagging it with the provided marker for later classification. The marker
// should be one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrIO
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Fatal reports whether an error must abort the whole run rather than be
// contained at the frame boundary.
func Fatal(err error) bool {
	return errors.Is(err, ErrConfiguration) || errors.Is(err, ErrCodec) || errors.Is(err, ErrLocked)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
