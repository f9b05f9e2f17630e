// Package unionlog builds a *zap.Logger from a unionconfig.LoggerConfig,
// following the same encoder/sink construction nakama's
// server/logger.go uses: a JSON or Stackdriver-flavored
// zapcore.EncoderConfig feeding a console sink and, optionally, a
// lumberjack-rotated file sink combined with zapcore.NewTee.
package unionlog

import (
	"fmt"
	"os"
	"strings"

	"github.com/doublemo/roaringunion/unionconfig"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Format selects the wire shape of emitted log lines.
type Format int

const (
	JSONFormat Format = iota
	StackdriverFormat
)

// New builds a logger from cfg. Unlike nakama's SetupLogging, which
// calls Fatal on its logger for a bad config since it runs at process startup,
// this is a library entry point and returns an error instead.
func New(cfg *unionconfig.LoggerConfig) (*zap.Logger, error) {
	if cfg == nil {
		cfg = unionconfig.NewLoggerConfig()
	}
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	format, err := parseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	encoder := newEncoder(format)
	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
	}
	if cfg.File != "" {
		cores = append(cores, zapcore.NewCore(encoder, fileSink(cfg), level))
	}
	return zap.New(zapcore.NewTee(cores...)), nil
}

func parseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return 0, fmt.Errorf("unionlog: unknown level %q", s)
	}
}

func parseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "json":
		return JSONFormat, nil
	case "stackdriver":
		return StackdriverFormat, nil
	default:
		return 0, fmt.Errorf("unionlog: unknown format %q", s)
	}
}

// fileSink returns the file sink for cfg.File. With cfg.Rotation set it
// wraps a lumberjack.Logger as a zapcore.WriteSyncer, the same rotation
// setup nakama's NewRotatingJSONFileLogger uses; otherwise it opens the
// file for appending, and falls back to stderr if that fails.
func fileSink(cfg *unionconfig.LoggerConfig) zapcore.WriteSyncer {
	if !cfg.Rotation {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return zapcore.Lock(os.Stderr)
		}
		return zapcore.Lock(f)
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSize,
		MaxAge:     cfg.MaxAge,
		MaxBackups: cfg.MaxBackups,
		LocalTime:  true,
		Compress:   false,
	})
}

// newEncoder mirrors nakama's newJSONEncoder: two EncoderConfig
// variants picked by format, JSON using zap's own field names and
// Stackdriver renaming them to what Cloud Logging expects.
func newEncoder(format Format) zapcore.Encoder {
	if format == StackdriverFormat {
		return zapcore.NewJSONEncoder(zapcore.EncoderConfig{
			TimeKey:        "time",
			LevelKey:       "severity",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "message",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    stackdriverLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		})
	}
	return zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	})
}

// stackdriverLevelEncoder maps zap's levels onto the severity strings
// Cloud Logging recognizes.
func stackdriverLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch l {
	case zapcore.DebugLevel:
		enc.AppendString("DEBUG")
	case zapcore.InfoLevel:
		enc.AppendString("INFO")
	case zapcore.WarnLevel:
		enc.AppendString("WARNING")
	case zapcore.ErrorLevel:
		enc.AppendString("ERROR")
	default:
		enc.AppendString("CRITICAL")
	}
}
