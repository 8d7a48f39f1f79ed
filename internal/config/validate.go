package config

import (
	"errors"
	"fmt"
	"strings"

	"aovpack/internal/exr"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMerge(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateMerge() error {
	if strings.ContainsAny(c.Merge.ShotName, "/\\") {
		return errors.New("merge.shot_name must not contain path separators")
	}
	if strings.ContainsAny(c.Merge.OutputDirName, "/\\") {
		return errors.New("merge.output_dir_name must not contain path separators")
	}
	if _, err := exr.ParsePrecision(c.Merge.Precision); err != nil {
		return fmt.Errorf("merge.precision: %w", err)
	}
	if c.Merge.Workers < 0 {
		return errors.New("merge.workers must be zero (auto) or positive")
	}
	if c.Merge.FrameTimeout < 0 {
		return errors.New("merge.frame_timeout must be zero (disabled) or positive")
	}
	if c.Merge.RunTimeout < 0 {
		return errors.New("merge.run_timeout must be zero (disabled) or positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
