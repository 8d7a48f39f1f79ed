// Package batch fans frame groups out to a worker pool. Each frame is
// independent; a failed or timed-out frame produces an error outcome
// without stopping the rest of the run.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"

	"aovpack/internal/logging"
	"aovpack/internal/merge"
	"aovpack/internal/scanner"
	"aovpack/internal/services"
)

// ProcessFunc handles one frame group.
type ProcessFunc func(ctx context.Context, group scanner.FrameGroup) merge.Outcome

// Options tunes a batch run.
type Options struct {
	// Workers is the pool size; 0 resolves to ResolveWorkers(0).
	Workers int
	// FrameTimeout bounds one frame's processing time; 0 disables it.
	FrameTimeout time.Duration
	// OnOutcome, when set, is called once per completed frame. Calls may
	// arrive from multiple workers concurrently.
	OnOutcome func(merge.Outcome)
}

// ResolveWorkers maps a configured worker count to an effective one. Zero
// means automatic: all CPUs minus one, at least one.
func ResolveWorkers(configured int) int {
	if configured > 0 {
		return configured
	}
	if n := runtime.NumCPU() - 1; n > 1 {
		return n
	}
	return 1
}

// Run processes every group through the pool and returns the outcomes
// sorted by frame. Cancelling ctx stops dispatching new frames; frames
// already in flight finish (or time out) and their outcomes are included.
// Undispatched frames produce no outcome.
func Run(ctx context.Context, logger *slog.Logger, groups []scanner.FrameGroup, process ProcessFunc, opts Options) []merge.Outcome {
	workers := ResolveWorkers(opts.Workers)
	logger = logging.NewComponentLogger(logger, "batch")

	jobs := make(chan scanner.FrameGroup)
	results := make(chan merge.Outcome)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for group := range jobs {
				outcome := runOne(ctx, group, process, opts.FrameTimeout)
				if opts.OnOutcome != nil {
					opts.OnOutcome(outcome)
				}
				results <- outcome
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, group := range groups {
			select {
			case <-ctx.Done():
				logger.Warn("run cancelled, stopping dispatch",
					logging.Error(ctx.Err()))
				return
			case jobs <- group:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	outcomes := make([]merge.Outcome, 0, len(groups))
	for outcome := range results {
		outcomes = append(outcomes, outcome)
	}
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].Frame < outcomes[j].Frame })
	return outcomes
}

// runOne bounds a single frame with the per-frame timeout and contains
// panics from the processor.
func runOne(ctx context.Context, group scanner.FrameGroup, process ProcessFunc, timeout time.Duration) merge.Outcome {
	frameCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		frameCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	done := make(chan merge.Outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- merge.Outcome{
					Frame:  group.Frame,
					Status: merge.StatusError,
					Detail: fmt.Sprintf("panic: %v", r),
				}
			}
		}()
		done <- process(frameCtx, group)
	}()

	select {
	case outcome := <-done:
		return outcome
	case <-frameCtx.Done():
		detail := "cancelled"
		if errors.Is(frameCtx.Err(), context.DeadlineExceeded) {
			detail = services.Wrap(services.ErrTimeout, "batch", "frame",
				fmt.Sprintf("timed out after %s", timeout), nil).Error()
		}
		return merge.Outcome{Frame: group.Frame, Status: merge.StatusError, Detail: detail}
	}
}
