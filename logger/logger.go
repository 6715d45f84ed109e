package logger

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

var globalLogger *logrus.Logger

// InitLogger replaces the global logger with one at the given level.
func InitLogger(level string) error {
	var lvl logrus.Level

	switch level {
	case "debug":
		lvl = logrus.DebugLevel
	case "info":
		lvl = logrus.InfoLevel
	case "warn":
		lvl = logrus.WarnLevel
	case "error":
		lvl = logrus.ErrorLevel
	default:
		return fmt.Errorf("invalid log level: %s", level)
	}

	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetLevel(lvl)

	globalLogger = l
	return nil
}

// GetLogger falls back to logrus' standard logger before InitLogger.
func GetLogger() *logrus.Logger {
	if globalLogger == nil {
		return logrus.StandardLogger()
	}
	return globalLogger
}
