package logger

import (
	"sync"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu  sync.RWMutex
	log *zap.Logger
)

// Initialize builds the process logger from cfg and installs it as the zap and
// otelzap globals. A log file that cannot be opened is reported on the console
// core and otherwise ignored.
func Initialize(cfg Config) *zap.Logger {
	level := zap.NewAtomicLevelAt(ParseLogLevel(cfg.Level))

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(DefaultConsoleEncoderConfig()), consoleWriter(cfg), level),
	}

	var fileErr error
	if cfg.File != "" {
		writer, err := GetLogFileWriter(cfg.File)
		if err != nil {
			fileErr = err
		} else {
			jsonCfg := zap.NewProductionEncoderConfig()
			jsonCfg.EncodeTime = zapcore.ISO8601TimeEncoder
			jsonCfg.EncodeLevel = zapcore.CapitalLevelEncoder
			cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(jsonCfg), writer, level))
		}
	}

	l := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	SetLogger(l)

	if fileErr != nil {
		l.Warn("Could not open log file, logging to console only",
			zap.String("log_file", cfg.File),
			zap.Error(fileErr))
	}
	l.Debug("Logger initialized",
		zap.String("log_level", level.String()),
		zap.String("log_file", cfg.File))
	return l
}

// SetLogger replaces the global logger and keeps otelzap in step with it.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	log = l
	mu.Unlock()

	zap.ReplaceGlobals(l)
	otelzap.ReplaceGlobals(otelzap.New(l))
}

// L returns the global logger, building the fallback logger on first use.
func L() *zap.Logger {
	mu.RLock()
	l := log
	mu.RUnlock()
	if l != nil {
		return l
	}
	InitializeWithFallback()
	return L()
}

// Sync flushes any buffered log entries. Should be called before the application exits.
func Sync() error {
	mu.RLock()
	l := log
	mu.RUnlock()
	if l == nil {
		return nil
	}
	return l.Sync()
}
