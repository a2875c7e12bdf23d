package logger

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mini-maxit/grader/pkg/constants"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	sugarLogger *zap.SugaredLogger
	initOnce    sync.Once
)

// getLogPath resolves LOG_DIR against the working directory. An empty
// result means file logging is disabled.
func getLogPath() string {
	logDir := strings.TrimSpace(os.Getenv("LOG_DIR"))
	switch {
	case logDir == constants.LogDirDisabled:
		return ""
	case logDir == "":
		logDir = constants.DefaultLogDir
	}
	if !filepath.IsAbs(logDir) {
		wd, err := os.Getwd()
		if err != nil {
			return ""
		}
		logDir = filepath.Join(wd, logDir)
	}
	return filepath.Join(logDir, constants.LogFileName)
}

// getLogLevel reads LOG_LEVEL, falling back to info for unset or unknown values.
func getLogLevel() zapcore.Level {
	levelStr := os.Getenv("LOG_LEVEL")
	if levelStr == "" {
		levelStr = constants.DefaultLogLevel
	}
	level, err := zapcore.ParseLevel(levelStr)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "source",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

func initializeLogger() {
	level := getLogLevel()
	encCfg := encoderConfig()

	// Stdout is left to command output; log lines go to stderr.
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), level),
	}

	if logPath := getLogPath(); logPath != "" {
		if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err == nil {
			rotated := zapcore.AddSync(&lumberjack.Logger{
				Filename:   logPath,
				MaxSize:    constants.LogMaxSizeMB,
				MaxBackups: constants.LogMaxBackups,
				MaxAge:     constants.LogMaxAgeDays,
				Compress:   true,
				LocalTime:  true,
			})
			// The rotated file is JSON so it can be shipped as is.
			cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), rotated, level))
		}
	}

	log := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	sugarLogger = log.Sugar()
}

// NewNamedLogger returns the shared logger named after the calling component.
func NewNamedLogger(name string) *zap.SugaredLogger {
	initOnce.Do(initializeLogger)
	return sugarLogger.Named(name)
}
