// Package log configures the process-wide logrus logger.
package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls log level and destinations. Stderr is always included so
// the tool stays usable in pipelines that capture stdout.
type Config struct {
	Verbose bool
	// File, when set, duplicates log output into a size-rotated file.
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// Init applies the configuration to the global logger.
func Init(cfg Config) {
	level := logrus.InfoLevel
	if cfg.Verbose {
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	writers := []io.Writer{os.Stderr}
	if cfg.File != "" {
		maxSize := cfg.MaxSizeMB
		if maxSize == 0 {
			maxSize = 10
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    maxSize,
			MaxBackups: cfg.MaxBackups,
		})
	}
	logrus.SetOutput(io.MultiWriter(writers...))
}
