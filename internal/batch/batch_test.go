package batch

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"aovpack/internal/logging"
	"aovpack/internal/merge"
	"aovpack/internal/scanner"
)

func frameGroups(n int) []scanner.FrameGroup {
	groups := make([]scanner.FrameGroup, n)
	for i := range groups {
		groups[i] = scanner.FrameGroup{Frame: i + 1}
	}
	return groups
}

func TestRunResultsSortedRegardlessOfWorkers(t *testing.T) {
	process := func(ctx context.Context, group scanner.FrameGroup) merge.Outcome {
		return merge.Outcome{
			Frame:      group.Frame,
			Status:     merge.StatusOK,
			OutputPath: fmt.Sprintf("/out/%04d.exr", group.Frame),
		}
	}

	for _, workers := range []int{1, 4} {
		outcomes := Run(context.Background(), logging.NewNop(), frameGroups(20), process, Options{Workers: workers})
		if len(outcomes) != 20 {
			t.Fatalf("workers=%d: got %d outcomes, want 20", workers, len(outcomes))
		}
		for i, outcome := range outcomes {
			if outcome.Frame != i+1 {
				t.Fatalf("workers=%d: outcome %d has frame %d", workers, i, outcome.Frame)
			}
		}
	}
}

func TestRunCancellationStopsDispatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var started atomic.Int32
	process := func(ctx context.Context, group scanner.FrameGroup) merge.Outcome {
		if started.Add(1) == 1 {
			cancel()
		}
		return merge.Outcome{Frame: group.Frame, Status: merge.StatusOK}
	}

	outcomes := Run(ctx, logging.NewNop(), frameGroups(50), process, Options{Workers: 1})
	if len(outcomes) >= 50 {
		t.Fatalf("got %d outcomes, expected dispatch to stop early", len(outcomes))
	}
}

func TestRunContainsPanics(t *testing.T) {
	process := func(ctx context.Context, group scanner.FrameGroup) merge.Outcome {
		if group.Frame == 2 {
			panic("codec blew up")
		}
		return merge.Outcome{Frame: group.Frame, Status: merge.StatusOK}
	}

	outcomes := Run(context.Background(), logging.NewNop(), frameGroups(3), process, Options{Workers: 2})
	if len(outcomes) != 3 {
		t.Fatalf("got %d outcomes, want 3", len(outcomes))
	}
	failed := outcomes[1]
	if failed.Frame != 2 || failed.Status != merge.StatusError {
		t.Fatalf("outcome = %+v, want frame 2 error", failed)
	}
	if !strings.Contains(failed.Detail, "panic") {
		t.Fatalf("detail = %q, want panic detail", failed.Detail)
	}
}

func TestRunFrameTimeout(t *testing.T) {
	process := func(ctx context.Context, group scanner.FrameGroup) merge.Outcome {
		if group.Frame == 1 {
			select {
			case <-ctx.Done():
			case <-time.After(5 * time.Second):
			}
		}
		return merge.Outcome{Frame: group.Frame, Status: merge.StatusOK}
	}

	outcomes := Run(context.Background(), logging.NewNop(), frameGroups(2), process, Options{
		Workers:      2,
		FrameTimeout: 50 * time.Millisecond,
	})
	if len(outcomes) != 2 {
		t.Fatalf("got %d outcomes, want 2", len(outcomes))
	}
	if outcomes[0].Status != merge.StatusError || !strings.Contains(outcomes[0].Detail, "timed out") {
		t.Fatalf("outcome = %+v, want timeout error", outcomes[0])
	}
	if outcomes[1].Status != merge.StatusOK {
		t.Fatalf("outcome = %+v, want ok", outcomes[1])
	}
}

func TestRunInvokesOutcomeCallback(t *testing.T) {
	var calls atomic.Int32
	process := func(ctx context.Context, group scanner.FrameGroup) merge.Outcome {
		return merge.Outcome{Frame: group.Frame, Status: merge.StatusOK}
	}

	Run(context.Background(), logging.NewNop(), frameGroups(5), process, Options{
		Workers:   3,
		OnOutcome: func(merge.Outcome) { calls.Add(1) },
	})
	if calls.Load() != 5 {
		t.Fatalf("callback invoked %d times, want 5", calls.Load())
	}
}

func TestResolveWorkers(t *testing.T) {
	if got := ResolveWorkers(6); got != 6 {
		t.Fatalf("got %d, want 6", got)
	}
	if got := ResolveWorkers(0); got < 1 {
		t.Fatalf("got %d, want at least 1", got)
	}
}
