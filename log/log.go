// Package log wraps zap with a swappable package-level logger.
package log

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger = newDefault()

// FileConfig holds rotated file output settings.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultFileConfig returns the rotation settings used when only a path is given.
func DefaultFileConfig(path string) FileConfig {
	return FileConfig{
		Path:       path,
		MaxSizeMB:  50,
		MaxBackups: 3,
		MaxAgeDays: 7,
		Compress:   true,
	}
}

func newDefault() *zap.Logger {
	return zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig(zapcore.CapitalLevelEncoder)),
		zapcore.AddSync(os.Stderr),
		zapcore.InfoLevel,
	))
}

func encoderConfig(lvlEnc zapcore.LevelEncoder) zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		MessageKey:       "msg",
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeLevel:      lvlEnc,
		ConsoleSeparator: " ",
	}
}

// Init configures the package logger. An empty logFile disables file output.
func Init(level string, logFile string) {
	lvl := ParseLevel(level)
	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig(zapcore.CapitalColorLevelEncoder)),
			zapcore.AddSync(os.Stderr),
			lvl,
		),
	}
	if logFile != "" {
		fc := DefaultFileConfig(logFile)
		w := &lumberjack.Logger{
			Filename:   fc.Path,
			MaxSize:    fc.MaxSizeMB,
			MaxBackups: fc.MaxBackups,
			MaxAge:     fc.MaxAgeDays,
			Compress:   fc.Compress,
			LocalTime:  true,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig(zapcore.CapitalLevelEncoder)),
			zapcore.AddSync(w),
			lvl,
		))
	}
	logger = zap.New(zapcore.NewTee(cores...))
}

// SetLogger lets an embedding application inject its own zap logger.
func SetLogger(l *zap.Logger) {
	if l != nil {
		logger = l
	}
}

func ParseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func Sync() {
	_ = logger.Sync()
}

func Debug(msg string, fields ...zap.Field) {
	logger.Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	logger.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	logger.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	logger.Error(msg, fields...)
}
