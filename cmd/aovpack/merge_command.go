package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"aovpack/internal/logging"
	"aovpack/internal/runner"
)

func newMergeCommand(ctx *commandContext) *cobra.Command {
	var (
		outputDir     string
		shotName      string
		precision     string
		workers       int
		keepOriginals bool
		jsonOutput    bool
	)

	cmd := &cobra.Command{
		Use:   "merge SOURCE_DIR",
		Short: "Merge a directory of per-AOV EXR files into multi-layer frames",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, closeLogger, err := logging.NewWithFile(logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				Writer: cmd.ErrOrStderr(),
			}, cfg.Paths.LogDir)
			if err != nil {
				return err
			}
			defer closeLogger()

			req := runner.Request{
				SourceDir:     args[0],
				OutputDir:     outputDir,
				ShotName:      shotName,
				KeepOriginals: cfg.Merge.KeepOriginals,
				Precision:     cfg.Merge.Precision,
				Workers:       cfg.Merge.Workers,
				FrameTimeout:  time.Duration(cfg.Merge.FrameTimeout) * time.Second,
				RunTimeout:    time.Duration(cfg.Merge.RunTimeout) * time.Second,
			}
			if cmd.Flags().Changed("keep-originals") {
				req.KeepOriginals = keepOriginals
			}
			if cmd.Flags().Changed("precision") {
				req.Precision = precision
			}
			if cmd.Flags().Changed("workers") {
				req.Workers = workers
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			result, err := runner.New(cfg, logger, cmd.OutOrStdout()).Run(runCtx, req)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, result.Summary)
			}
			if result.Summary.Errors > 0 {
				return fmt.Errorf("%d frame(s) failed", result.Summary.Errors)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default: SOURCE_DIR/<output_dir_name>)")
	cmd.Flags().StringVar(&shotName, "shot", "", "Shot name for output filenames")
	cmd.Flags().StringVar(&precision, "precision", "", "Pixel precision: half or float")
	cmd.Flags().IntVar(&workers, "workers", 0, "Worker pool size (0 = auto)")
	cmd.Flags().BoolVar(&keepOriginals, "keep-originals", true, "Keep source files after a successful merge")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the run summary as JSON")
	return cmd
}
