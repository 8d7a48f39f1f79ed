// Package report renders per-frame progress lines and the end-of-run
// summary, and mirrors each frame outcome as a structured log event.
package report

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"aovpack/internal/logging"
	"aovpack/internal/merge"
)

// Reporter emits one progress line per completed frame. Workers finish
// concurrently, so FrameDone serializes output behind a mutex.
type Reporter struct {
	mu     sync.Mutex
	out    io.Writer
	logger *slog.Logger
	total  int
	done   int
}

// NewReporter builds a reporter for a run of total frames.
func NewReporter(out io.Writer, logger *slog.Logger, total int) *Reporter {
	return &Reporter{
		out:    out,
		logger: logging.NewComponentLogger(logger, "report"),
		total:  total,
	}
}

// FrameDone records one frame outcome, prints its progress line, and logs
// the structured event.
func (r *Reporter) FrameDone(outcome merge.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.done++

	switch outcome.Status {
	case merge.StatusOK:
		fmt.Fprintf(r.out, "[%d/%d] packed %s\n", r.done, r.total, outcome.OutputPath)
	case merge.StatusSkipped:
		fmt.Fprintf(r.out, "[%d/%d] skip: %s (frame %d)\n", r.done, r.total, outcome.Detail, outcome.Frame)
	default:
		fmt.Fprintf(r.out, "[%d/%d] error: %s (frame %d)\n", r.done, r.total, outcome.Detail, outcome.Frame)
	}

	r.logger.Info("frame processed",
		logging.String(logging.FieldEventType, "frame_outcome"),
		logging.Int(logging.FieldFrame, outcome.Frame),
		logging.String(logging.FieldStatus, string(outcome.Status)),
		logging.String(logging.FieldOutput, outcome.OutputPath),
		logging.String("detail", outcome.Detail))
}

// Summary aggregates a run's outcomes.
type Summary struct {
	Total   int
	OK      int
	Skipped int
	Errors  int
}

// Summarize folds frame outcomes into totals.
func Summarize(outcomes []merge.Outcome) Summary {
	summary := Summary{Total: len(outcomes)}
	for _, outcome := range outcomes {
		switch outcome.Status {
		case merge.StatusOK:
			summary.OK++
		case merge.StatusSkipped:
			summary.Skipped++
		default:
			summary.Errors++
		}
	}
	return summary
}

// String renders the end-of-run line.
func (s Summary) String() string {
	return fmt.Sprintf("Done: %d packed, %d skipped, %d failed (%d total)",
		s.OK, s.Skipped, s.Errors, s.Total)
}
