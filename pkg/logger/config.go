/* pkg/logger/config.go */

package logger

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Config selects where and how verbosely the process logs.
type Config struct {
	Level string
	File  string

	// Console defaults to stderr so stdout stays free for reports.
	Console io.Writer
}

func ParseLogLevel(level string) zapcore.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "TRACE", "DEBUG":
		return zapcore.DebugLevel
	case "WARN", "WARNING":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	case "FATAL":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func consoleWriter(cfg Config) zapcore.WriteSyncer {
	if cfg.Console != nil {
		return zapcore.AddSync(cfg.Console)
	}
	return zapcore.Lock(os.Stderr)
}

func DefaultConsoleEncoderConfig() zapcore.EncoderConfig {
	cfg := zapcore.EncoderConfig{
		TimeKey:        "T",
		LevelKey:       "L",
		NameKey:        "N",
		CallerKey:      "",
		MessageKey:     "M",
		StacktraceKey:  "S",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalColorLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	return cfg
}
