package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryDB) == "" {
		c.Paths.HistoryDB = defaultHistoryDB
	}
	if c.Paths.HistoryDB, err = expandPath(c.Paths.HistoryDB); err != nil {
		return fmt.Errorf("paths.history_db: %w", err)
	}

	c.Merge.ShotName = strings.TrimSpace(c.Merge.ShotName)
	if c.Merge.ShotName == "" {
		c.Merge.ShotName = defaultShotName
	}
	c.Merge.OutputDirName = strings.TrimSpace(c.Merge.OutputDirName)
	if c.Merge.OutputDirName == "" {
		c.Merge.OutputDirName = defaultOutputDirName
	}
	c.Merge.Precision = strings.ToLower(strings.TrimSpace(c.Merge.Precision))
	if c.Merge.Precision == "" {
		c.Merge.Precision = defaultPrecision
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}
