package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"scaffoldapi/internal/config"
)

// AppChannel is the logical channel name used by the application bootstrap.
const AppChannel = "app"

// Options configures the process-wide logging backend.
type Options struct {
	// Level is one of debug, info, warn, error.
	Level string
	// Console receives every entry. Defaults to stdout.
	Console io.Writer
	// File is the path of the rotating log file. Empty disables the file sink.
	File string
	// MaxSizeMB is the size at which the file is rotated.
	MaxSizeMB  int
	MaxBackups int
}

// FromSettings maps the logging section of the settings to Options.
func FromSettings(s *config.Settings) Options {
	return Options{
		Level:      s.Log.Level,
		File:       s.Log.File,
		MaxSizeMB:  s.Log.MaxSizeMB,
		MaxBackups: s.Log.MaxBackups,
	}
}

// New creates a structured JSON logger that writes to the console and, optionally, to a
// size-rotated file. Build it once at startup and pass it (or Named children) to components.
func New(opts Options) (*zap.Logger, error) {
	lvl := opts.Level
	if lvl == "warning" {
		lvl = "warn"
	}
	level, err := zapcore.ParseLevel(lvl)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	enc := zapcore.NewJSONEncoder(encCfg)

	console := opts.Console
	if console == nil {
		console = os.Stdout
	}
	cores := []zapcore.Core{
		zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(console)), level),
	}

	if opts.File != "" {
		maxSize := opts.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 1
		}
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    maxSize,
			MaxBackups: opts.MaxBackups,
		}
		cores = append(cores, zapcore.NewCore(enc.Clone(), zapcore.AddSync(rotator), level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// Named returns the handle for a logical channel. Handles share the backend of base.
func Named(base *zap.Logger, name string) *zap.Logger {
	if base == nil {
		base = zap.NewNop()
	}
	return base.Named(name)
}
