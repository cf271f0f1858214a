// Package log is the logging facade for the application. All library code
// logs through it; the backend is a single charmbracelet logger writing to
// stderr.
package log

import (
	"os"

	charm "github.com/charmbracelet/log"
)

type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelError Level = "ERROR"
)

var logger = charm.NewWithOptions(os.Stderr, charm.Options{
	ReportTimestamp: true,
	Level:           charm.InfoLevel,
})

// SetLevel sets the minimum level that will be emitted.
func SetLevel(l Level) {
	switch l {
	case LevelDebug:
		logger.SetLevel(charm.DebugLevel)
	case LevelError:
		logger.SetLevel(charm.ErrorLevel)
	default:
		logger.SetLevel(charm.InfoLevel)
	}
}

func Debug(msg string, kv ...any) {
	logger.Debug(msg, kv...)
}

func Info(msg string, kv ...any) {
	logger.Info(msg, kv...)
}

// Error logs msg with err prepended to the key-value pairs.
func Error(msg string, err error, kv ...any) {
	logger.Error(msg, append([]any{"err", err}, kv...)...)
}
