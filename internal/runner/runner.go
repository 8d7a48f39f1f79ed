package runner

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"aovpack/internal/batch"
	"aovpack/internal/config"
	"aovpack/internal/exr"
	"aovpack/internal/history"
	"aovpack/internal/logging"
	"aovpack/internal/merge"
	"aovpack/internal/preflight"
	"aovpack/internal/report"
	"aovpack/internal/scanner"
	"aovpack/internal/services"
)

// Codec combines the surfaces a run needs from the container codec.
type Codec interface {
	merge.Codec
	preflight.SelfChecker
}

// Request carries the effective parameters for one run. The CLI resolves
// config defaults and flag overrides before building it.
type Request struct {
	SourceDir     string
	OutputDir     string // empty: <SourceDir>/<output_dir_name>
	ShotName      string
	KeepOriginals bool
	Precision     string
	Workers       int
	FrameTimeout  time.Duration
	RunTimeout    time.Duration
}

// Result is what a completed run reports back.
type Result struct {
	RunID     string
	OutputDir string
	Preflight []preflight.Result
	Outcomes  []merge.Outcome
	Summary   report.Summary
}

// Runner executes merge runs. One Runner may serve several sequential
// runs; concurrent runs against the same source directory are rejected by
// the run lock.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
	codec  Codec
	out    io.Writer
}

// New builds a runner on the production container codec.
func New(cfg *config.Config, logger *slog.Logger, out io.Writer) *Runner {
	return NewWithCodec(cfg, logger, out, exr.NewCodec())
}

// NewWithCodec builds a runner with an explicit codec.
func NewWithCodec(cfg *config.Config, logger *slog.Logger, out io.Writer, codec Codec) *Runner {
	return &Runner{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "runner"),
		codec:  codec,
		out:    out,
	}
}

// Run executes one merge run end to end.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	sourceDir, err := filepath.Abs(req.SourceDir)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "runner", "validate", req.SourceDir, err)
	}
	info, err := os.Stat(sourceDir)
	if err != nil || !info.IsDir() {
		return nil, services.Wrap(services.ErrConfiguration, "runner", "validate",
			fmt.Sprintf("invalid source folder %s", sourceDir), err)
	}

	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = filepath.Join(sourceDir, r.cfg.Merge.OutputDirName)
	}
	precision, err := exr.ParsePrecision(req.Precision)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "runner", "validate", req.Precision, err)
	}
	shotName := req.ShotName
	if shotName == "" {
		shotName = r.cfg.Merge.ShotName
	}

	runID := uuid.NewString()
	ctx = logging.WithRun(ctx, runID)
	logger := logging.WithContext(ctx, r.logger)
	result := &Result{RunID: runID, OutputDir: outputDir}

	unlock, err := r.acquireRunLock(sourceDir)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if req.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.RunTimeout)
		defer cancel()
	}

	result.Preflight = preflight.RunAll(preflight.Request{
		SourceDir: sourceDir,
		OutputDir: outputDir,
		LogDir:    r.cfg.Paths.LogDir,
	}, r.codec)
	if err := preflightError(result.Preflight); err != nil {
		return result, err
	}

	groups, err := scanner.Scan(sourceDir)
	if err != nil {
		return result, services.Wrap(services.ErrIO, "runner", "scan", sourceDir, err)
	}
	scanSummary := scanner.Summarize(groups)
	fmt.Fprintln(r.out, scanSummary.Preview())
	if len(groups) == 0 {
		return result, nil
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return result, services.Wrap(services.ErrIO, "runner", "create output directory", outputDir, err)
	}

	workersLabel := "auto"
	if req.Workers > 0 {
		workersLabel = fmt.Sprintf("%d", req.Workers)
	}
	fmt.Fprintf(r.out, "Found frames: %d | dtype=%s | workers=%s\n", len(groups), precision, workersLabel)
	logger.Info("run started",
		logging.String("source_dir", sourceDir),
		logging.String(logging.FieldOutput, outputDir),
		logging.String("shot_name", shotName),
		logging.String("precision", precision.String()),
		logging.Int("frames", len(groups)),
		logging.Int("workers", batch.ResolveWorkers(req.Workers)))

	startedAt := time.Now()
	reporter := report.NewReporter(r.out, r.logger, len(groups))
	writer := merge.NewWriter(r.codec, r.logger)
	mergeReq := merge.Request{
		OutputDir:     outputDir,
		ShotName:      shotName,
		KeepOriginals: req.KeepOriginals,
		Precision:     precision,
	}

	result.Outcomes = batch.Run(ctx, r.logger, groups, func(frameCtx context.Context, group scanner.FrameGroup) merge.Outcome {
		return writer.WriteFrame(frameCtx, group, mergeReq)
	}, batch.Options{
		Workers:      req.Workers,
		FrameTimeout: req.FrameTimeout,
		OnOutcome:    reporter.FrameDone,
	})
	finishedAt := time.Now()

	result.Summary = report.Summarize(result.Outcomes)
	fmt.Fprintln(r.out, result.Summary.String())
	logger.Info("run finished",
		logging.Int("ok", result.Summary.OK),
		logging.Int("skipped", result.Summary.Skipped),
		logging.Int("errors", result.Summary.Errors),
		logging.Duration("elapsed", finishedAt.Sub(startedAt)))

	r.recordHistory(ctx, logger, req, result, sourceDir, shotName, precision, startedAt, finishedAt)
	return result, nil
}

func (r *Runner) acquireRunLock(sourceDir string) (func(), error) {
	if err := os.MkdirAll(r.cfg.Paths.LogDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrIO, "runner", "create log directory", r.cfg.Paths.LogDir, err)
	}
	digest := sha256.Sum256([]byte(sourceDir))
	lockPath := filepath.Join(r.cfg.Paths.LogDir, fmt.Sprintf("aovpack-%s.lock", hex.EncodeToString(digest[:6])))
	lock := flock.New(lockPath)

	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "runner", "acquire lock", lockPath, err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrLocked, "runner", "acquire lock",
			fmt.Sprintf("another run is already processing %s", sourceDir), nil)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release run lock",
				logging.String("path", lockPath),
				logging.Error(err))
		}
	}, nil
}

func preflightError(results []preflight.Result) error {
	for _, result := range results {
		if result.Passed {
			continue
		}
		marker := services.ErrValidation
		if result.Kind == preflight.KindCodec {
			marker = services.ErrCodec
		}
		return services.Wrap(marker, "runner", "preflight",
			fmt.Sprintf("%s: %s", result.Name, result.Detail), nil)
	}
	return nil
}

func (r *Runner) recordHistory(ctx context.Context, logger *slog.Logger, req Request, result *Result, sourceDir, shotName string, precision exr.Precision, startedAt, finishedAt time.Time) {
	store, err := history.Open(r.cfg.Paths.HistoryDB)
	if err != nil {
		logger.Warn("history unavailable", logging.Error(err))
		return
	}
	defer store.Close()

	run := history.Run{
		ID:         result.RunID,
		SourceDir:  sourceDir,
		OutputDir:  result.OutputDir,
		ShotName:   shotName,
		Precision:  precision.String(),
		Workers:    batch.ResolveWorkers(req.Workers),
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Total:      result.Summary.Total,
		OK:         result.Summary.OK,
		Skipped:    result.Summary.Skipped,
		Errors:     result.Summary.Errors,
	}
	frames := make([]history.FrameRecord, 0, len(result.Outcomes))
	for _, outcome := range result.Outcomes {
		frames = append(frames, history.FrameRecord{
			Frame:      outcome.Frame,
			Status:     string(outcome.Status),
			OutputPath: outcome.OutputPath,
			Detail:     outcome.Detail,
		})
	}
	if err := store.RecordRun(ctx, run, frames); err != nil {
		logger.Warn("failed to record run history", logging.Error(err))
	}
}
