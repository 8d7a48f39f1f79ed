package config

const (
	defaultLogDir        = "~/.local/share/aovpack/logs"
	defaultHistoryDB     = "~/.local/share/aovpack/history.db"
	defaultShotName      = "E001_C020"
	defaultOutputDirName = "packed"
	defaultPrecision     = "half"
	defaultFrameTimeout  = 600
	defaultRunTimeout    = 3600
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:    defaultLogDir,
			HistoryDB: defaultHistoryDB,
		},
		Merge: Merge{
			ShotName:      defaultShotName,
			OutputDirName: defaultOutputDirName,
			KeepOriginals: true,
			Precision:     defaultPrecision,
			Workers:       0,
			FrameTimeout:  defaultFrameTimeout,
			RunTimeout:    defaultRunTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
