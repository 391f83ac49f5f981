package logme

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	isDebugMode bool = os.Getenv("DEBUG") == "1"
	level            = zap.NewAtomicLevelAt(levelFor(isDebugMode))
	logger      *zap.SugaredLogger
)

func init() {
	logger = newLogger()
}

func levelFor(debug bool) zapcore.Level {
	if debug {
		return zap.DebugLevel
	}
	return zap.InfoLevel
}

func newLogger() *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{"stderr"}
	cfg.Level = level

	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

// SetDebug toggles debug output. The DEBUG=1 environment variable sets the
// initial value. Only the level changes, the current logger is kept.
func SetDebug(debug bool) {
	isDebugMode = debug
	level.SetLevel(levelFor(debug))
}

func IsDebug() bool {
	return isDebugMode
}

// SetLogger replaces the underlying zap logger, mainly for tests. Debug
// messages only reach it while debug output is on. nil restores the default
// logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		logger = newLogger()
		return
	}
	logger = l.Sugar()
}

func Sync() {
	_ = logger.Sync()
}

func DebugF(msg string, args ...interface{}) {
	if !isDebugMode {
		return
	}
	logger.Debugf(strings.TrimSuffix(msg, "\n"), args...)
}

func DebugFln(msg string, args ...interface{}) {
	if !isDebugMode {
		return
	}
	logger.Debugf(msg, args...)
}

func Debugln(args ...interface{}) {
	if !isDebugMode {
		return
	}
	logger.Debug(sprintln(args...))
}

func InfoF(msg string, args ...interface{}) {
	logger.Infof(strings.TrimSuffix(msg, "\n"), args...)
}

func Infoln(args ...interface{}) {
	logger.Info(sprintln(args...))
}

func WarnF(msg string, args ...interface{}) {
	logger.Warnf(strings.TrimSuffix(msg, "\n"), args...)
}

func ErrorF(msg string, args ...interface{}) {
	logger.Errorf(strings.TrimSuffix(msg, "\n"), args...)
}

func Errorln(args ...interface{}) {
	logger.Error(sprintln(args...))
}

// sprintln behaves like fmt.Sprintln without the trailing newline.
func sprintln(args ...interface{}) string {
	return strings.TrimSuffix(fmt.Sprintln(args...), "\n")
}
