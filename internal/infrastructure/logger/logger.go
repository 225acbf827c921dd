// Package logger builds the zap loggers used by ordergen and namingd.
package logger

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Config selects level, encoding and destination.
// Output is "stdout", "stderr" or a file path opened for append.
type Config struct {
	Level      string
	Format     string // "json" or "console"
	Output     string
	TimeFormat string
}

// DefaultConfig logs coloured console lines to stderr; stdout is kept for the
// table previews
func DefaultConfig() *Config {
	return &Config{Level: "info", Format: "console", Output: "stderr", TimeFormat: defaultTimeFormat}
}

// ProductionConfig logs JSON to stderr
func ProductionConfig() *Config {
	return &Config{Level: "info", Format: "json", Output: "stderr", TimeFormat: defaultTimeFormat}
}

// New fails only when a log file cannot be opened
func New(cfg *Config) (*zap.Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	sink, err := openSink(cfg.Output)
	if err != nil {
		return nil, err
	}
	core := zapcore.NewCore(newEncoder(cfg.Format, cfg.TimeFormat), sink, parseLevel(cfg.Level))
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// NewForEnvironment picks ProductionConfig for "production", DefaultConfig otherwise
func NewForEnvironment(env string) (*zap.Logger, error) {
	if env == "production" {
		return New(ProductionConfig())
	}
	return New(DefaultConfig())
}

// parseLevel accepts debug, info, warn(ing) and error; anything else is info
func parseLevel(level string) zapcore.Level {
	var l zapcore.Level
	switch s := strings.ToLower(level); s {
	case "warning":
		return zapcore.WarnLevel
	case "debug", "info", "warn", "error":
		_ = l.Set(s)
		return l
	}
	return zapcore.InfoLevel
}

func newEncoder(format, timeFormat string) zapcore.Encoder {
	if timeFormat == "" {
		timeFormat = defaultTimeFormat
	}
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "time"
	ec.EncodeTime = zapcore.TimeEncoderOfLayout(timeFormat)
	ec.EncodeDuration = zapcore.MillisDurationEncoder

	if format == "console" {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(ec)
	}
	return zapcore.NewJSONEncoder(ec)
}

func openSink(output string) (zapcore.WriteSyncer, error) {
	switch strings.ToLower(output) {
	case "", "stderr":
		return zapcore.Lock(os.Stderr), nil
	case "stdout":
		return zapcore.Lock(os.Stdout), nil
	}
	f, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", output, err)
	}
	return zapcore.AddSync(f), nil
}

// Sync flushes buffered entries. EINVAL and ENOTTY, which a terminal returns
// for fsync, are not errors.
func Sync(logger *zap.Logger) error {
	err := logger.Sync()
	if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
		return nil
	}
	return err
}
