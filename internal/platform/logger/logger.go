package logger

import (
	"io"
	"os"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level = zapcore.Level

const (
	LevelDebug = zapcore.DebugLevel
	LevelInfo  = zapcore.InfoLevel
	LevelWarn  = zapcore.WarnLevel
	LevelError = zapcore.ErrorLevel
)

var (
	level = zap.NewAtomicLevelAt(LevelInfo)
	sugar atomic.Pointer[zap.SugaredLogger]
)

func init() {
	build(os.Stdout, os.Stderr)
}

// build writes debug, info and warn to out and errors to errOut. Errors ignore the level.
func build(out, errOut io.Writer) {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	enc := zapcore.NewConsoleEncoder(cfg)

	core := zapcore.NewTee(
		zapcore.NewCore(enc, zapcore.AddSync(out), zap.LevelEnablerFunc(func(l zapcore.Level) bool {
			return l < zapcore.ErrorLevel && level.Enabled(l)
		})),
		zapcore.NewCore(enc.Clone(), zapcore.AddSync(errOut), zap.LevelEnablerFunc(func(l zapcore.Level) bool {
			return l >= zapcore.ErrorLevel
		})),
	)
	sugar.Store(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar())
}

// ParseLevel maps LOG_LEVEL values to a Level. Unknown values fall back to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func SetLevel(l Level) {
	level.SetLevel(l)
}

// SetOutput redirects every level to w, mostly for tests.
func SetOutput(w io.Writer) {
	build(w, w)
}

// Sync flushes buffered entries; call it once on shutdown.
func Sync() error {
	return sugar.Load().Sync()
}

func Debug(msg string, v ...interface{}) {
	sugar.Load().Debugf(msg, v...)
}

func Info(msg string, v ...interface{}) {
	sugar.Load().Infof(msg, v...)
}

func Warn(msg string, v ...interface{}) {
	sugar.Load().Warnf(msg, v...)
}

func Error(msg string, err error, v ...interface{}) {
	if err != nil {
		sugar.Load().Errorf(msg+": %v", append(v, err)...)
		return
	}
	sugar.Load().Errorf(msg, v...)
}
