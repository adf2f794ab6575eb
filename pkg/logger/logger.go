// Package logger provides structured logging for the buildtime tool.
// It wraps uber-go/zap; logs go to stderr by default so that commands printing
// rendered timestamps on stdout stay pipe-friendly.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FieldRunID is the field key identifying one generator run
const FieldRunID = "run_id"

var (
	// Global logger instance
	globalLogger *zap.Logger
	once         sync.Once
)

// Config holds the logger configuration
type Config struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string `yaml:"level"`
	// Format is the output format (json, text)
	Format string `yaml:"format"`
	// Output is the console stream (stderr, stdout); default stderr
	Output string `yaml:"output"`
	// File is the log file path (empty for console only)
	// When set, logs are written to both console and file
	File string `yaml:"file"`
	// MaxSize is the maximum size in megabytes of the log file before it gets rotated
	MaxSize int `yaml:"max_size"`
	// MaxAge is the maximum number of days to retain old log files
	MaxAge int `yaml:"max_age"`
	// MaxBackups is the maximum number of old log files to retain
	MaxBackups int `yaml:"max_backups"`
	// Compress determines if the rotated log files should be compressed using gzip
	Compress bool `yaml:"compress"`
}

// Init initializes the global logger with the given configuration.
// This function is safe to call multiple times; only the first call will take effect.
func Init(cfg Config) error {
	var initErr error
	once.Do(func() {
		globalLogger, initErr = New(cfg)
	})
	return initErr
}

// New builds a logger from cfg without touching the global instance.
func New(cfg Config) (*zap.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	// Apply default values for rotation config
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 100 // Default 100 MB
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = 7 // Default 7 days
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = 5 // Default 5 backups
	}

	console, err := consoleWriter(cfg.Output)
	if err != nil {
		return nil, err
	}

	return build(level, cfg, console), nil
}

// NewWithWriter builds a logger writing to w only; used by tests and callers that
// capture log output.
func NewWithWriter(cfg Config, w io.Writer) *zap.Logger {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	cfg.File = ""
	return build(level, cfg, zapcore.AddSync(w))
}

func consoleWriter(output string) (zapcore.WriteSyncer, error) {
	switch output {
	case "", "stderr":
		return zapcore.Lock(os.Stderr), nil
	case "stdout":
		return zapcore.Lock(os.Stdout), nil
	default:
		return nil, fmt.Errorf("unknown log output %q", output)
	}
}

// build creates the console core and, when a file is configured, tees it with a
// rotating file core. Text consoles get bracketed colored levels; files never do.
func build(level zapcore.Level, cfg Config, console zapcore.WriteSyncer) *zap.Logger {
	var consoleEncoder, fileEncoder zapcore.Encoder
	if cfg.Format == "text" {
		consoleEncoder = newKVConsoleEncoder(textEncoderConfig(bracketColorLevelEncoder))
		fileEncoder = newKVConsoleEncoder(textEncoderConfig(bracketLevelEncoder))
	} else {
		consoleEncoder = zapcore.NewJSONEncoder(jsonEncoderConfig())
		fileEncoder = consoleEncoder
	}

	core := zapcore.NewCore(consoleEncoder, console, level)

	if cfg.File != "" {
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create log directory: %v, using console only\n", err)
		} else {
			// Use lumberjack for log rotation
			fileWriter := zapcore.AddSync(&lumberjack.Logger{
				Filename:   cfg.File,
				MaxSize:    cfg.MaxSize,    // megabytes
				MaxAge:     cfg.MaxAge,     // days
				MaxBackups: cfg.MaxBackups, // number of backups
				Compress:   cfg.Compress,   // compress old files
			})
			core = zapcore.NewTee(core, zapcore.NewCore(fileEncoder, fileWriter, level))
		}
	}

	// Note: No AddCallerSkip here, as it's only needed for package-level wrapper functions
	return zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
}

func textEncoderConfig(levelEncoder zapcore.LevelEncoder) zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          zapcore.OmitKey,
		CallerKey:        "caller",
		FunctionKey:      zapcore.OmitKey,
		MessageKey:       "msg",
		StacktraceKey:    "stacktrace",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      levelEncoder,
		EncodeTime:       bracketTimeEncoder,            // [2006-01-02 15:04:05]
		EncodeDuration:   zapcore.StringDurationEncoder, // Human-readable duration
		EncodeCaller:     zapcore.ShortCallerEncoder,    // Short file path
		ConsoleSeparator: " ",
	}
}

func jsonEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// bracketTimeEncoder formats time with brackets: [2006-01-02 15:04:05]
func bracketTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + t.Format("2006-01-02 15:04:05") + "]")
}

// bracketLevelEncoder formats level with brackets: [INFO]
func bracketLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + level.CapitalString() + "]")
}

// bracketColorLevelEncoder formats level with brackets and ANSI color: [INFO]
func bracketColorLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	var color string
	switch level {
	case zapcore.DebugLevel:
		color = "\x1b[35m" // Magenta
	case zapcore.InfoLevel:
		color = "\x1b[34m" // Blue
	case zapcore.WarnLevel:
		color = "\x1b[33m" // Yellow
	case zapcore.ErrorLevel, zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		color = "\x1b[31m" // Red
	default:
		color = "\x1b[0m" // Reset
	}
	enc.AppendString(color + "[" + level.CapitalString() + "]\x1b[0m")
}

// parseLevel converts a string level to zapcore.Level
func parseLevel(level string) (zapcore.Level, error) {
	var l zapcore.Level
	err := l.UnmarshalText([]byte(level))
	return l, err
}

// Get returns the global logger instance.
// If the logger hasn't been initialized, it returns a no-op logger.
func Get() *zap.Logger {
	if globalLogger == nil {
		return zap.NewNop()
	}
	return globalLogger
}

// Set replaces the global logger; nil restores the no-op logger.
func Set(l *zap.Logger) {
	globalLogger = l
}

// Named creates a child logger with the given name
func Named(name string) *zap.Logger {
	return Get().Named(name)
}

// WithRunID creates a child logger tagged with a generator run id.
func WithRunID(runID string) *zap.Logger {
	return Get().With(zap.String(FieldRunID, runID))
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	Get().WithOptions(zap.AddCallerSkip(1)).Debug(msg, fields...)
}

// Sync flushes any buffered log entries
func Sync() error {
	if globalLogger != nil {
		return globalLogger.Sync()
	}
	return nil
}
