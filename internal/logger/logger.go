// Package logger holds the process-wide zap logger. Console output goes to
// stderr so command output on stdout stays machine readable; an optional
// JSON file sink rotates through lumberjack.
package logger

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the global logger. It discards everything until Setup or Init runs,
// so packages and tests can log unconditionally.
var Log = zap.NewNop()

// level is shared by every core built by Setup, so SetLevel takes effect
// without rebuilding the logger.
var level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

// FileConfig describes the rotating log file.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// RotatingFile returns the rotation policy used for editor session logs.
func RotatingFile(path string) FileConfig {
	return FileConfig{
		Path:       path,
		MaxSizeMB:  20,
		MaxBackups: 5,
		MaxAgeDays: 14,
		Compress:   true,
	}
}

// Options select the sinks of the global logger.
type Options struct {
	Level   string
	Console io.Writer // nil disables console output
	File    FileConfig
}

// Init logs to stderr at level and, when logFile is set, to a rotating file.
func Init(lvl, logFile string) error {
	opts := Options{Level: lvl, Console: os.Stderr}
	if logFile != "" {
		opts.File = RotatingFile(logFile)
	}
	return Setup(opts)
}

// Setup replaces the global logger. An unknown level is an error and leaves
// the previous logger in place.
func Setup(opts Options) error {
	if err := SetLevel(opts.Level); err != nil {
		return err
	}

	var cores []zapcore.Core
	if opts.Console != nil {
		enc := zap.NewDevelopmentEncoderConfig()
		enc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(opts.Console), level))
	}
	if opts.File.Path != "" {
		sink := &lumberjack.Logger{
			Filename:   opts.File.Path,
			MaxSize:    opts.File.MaxSizeMB,
			MaxBackups: opts.File.MaxBackups,
			MaxAge:     opts.File.MaxAgeDays,
			Compress:   opts.File.Compress,
			LocalTime:  true,
		}
		enc := zap.NewProductionEncoderConfig()
		enc.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(sink), level))
	}

	if len(cores) == 0 {
		Log = zap.NewNop()
		return nil
	}
	Log = zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	return nil
}

// SetLevel changes the minimum level of the running logger. Empty means info.
func SetLevel(lvl string) error {
	if lvl == "" {
		level.SetLevel(zapcore.InfoLevel)
		return nil
	}
	l, err := zapcore.ParseLevel(lvl)
	if err != nil {
		return fmt.Errorf("log level %q: %w", lvl, err)
	}
	level.SetLevel(l)
	return nil
}

// Sync flushes buffered entries.
func Sync() {
	_ = Log.Sync()
}

// Named returns a child logger for one component.
func Named(component string) *zap.Logger {
	return Log.Named(component)
}

// SetForTest swaps the global logger and returns a func restoring the previous one.
func SetForTest(l *zap.Logger) (restore func()) {
	prev := Log
	Log = l
	return func() { Log = prev }
}

// Package-level helpers log through Log and report the caller's line.

func Debug(msg string, fields ...zap.Field) {
	Log.WithOptions(zap.AddCallerSkip(1)).Debug(msg, fields...)
}
func Info(msg string, fields ...zap.Field) {
	Log.WithOptions(zap.AddCallerSkip(1)).Info(msg, fields...)
}
func Warn(msg string, fields ...zap.Field) {
	Log.WithOptions(zap.AddCallerSkip(1)).Warn(msg, fields...)
}
func Error(msg string, fields ...zap.Field) {
	Log.WithOptions(zap.AddCallerSkip(1)).Error(msg, fields...)
}
