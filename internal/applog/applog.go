// Package applog builds the zap logger used by the mesher's diagnostic
// path and the CLI driver, rotating log files with lumberjack the way the
// rest of this corpus's CLI tools do.
package applog

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls where and how log output is written.
type Config struct {
	// FilePath is the rotated log file's path. Empty disables file output
	// (stderr only).
	FilePath string
	// MaxSizeMB is the size in megabytes a log file reaches before it is
	// rotated.
	MaxSizeMB int
	// MaxBackups is how many rotated files are kept.
	MaxBackups int
	// MaxAgeDays is how many days a rotated file is kept.
	MaxAgeDays int
	// Development switches the stderr output from JSON to zap's
	// human-readable console encoding. The rotated file stays JSON either
	// way.
	Development bool
}

// DefaultConfig returns sane rotation defaults.
func DefaultConfig(filePath string) Config {
	return Config{
		FilePath:   filePath,
		MaxSizeMB:  64,
		MaxBackups: 5,
		MaxAgeDays: 14,
	}
}

// New builds a *zap.Logger per cfg. Every run's entries carry no implicit
// fields; callers tag a run id with logger.With(zap.String("run_id", ...)).
func New(cfg Config) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var cores []zapcore.Core

	consoleEncoder := zapcore.NewJSONEncoder(encoderCfg)
	if cfg.Development {
		consoleEncoder = zapcore.NewConsoleEncoder(encoderCfg)
	}
	cores = append(cores, zapcore.NewCore(consoleEncoder, zapcore.Lock(zapcore.AddSync(os.Stderr)), level))

	if cfg.FilePath != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}
		fileEncoder := zapcore.NewJSONEncoder(encoderCfg)
		cores = append(cores, zapcore.NewCore(fileEncoder, zapcore.AddSync(rotator), level))
	}

	core := zapcore.NewTee(cores...)
	return zap.New(core, zap.AddCaller()), nil
}
