package core

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var once sync.Once

type logger struct {
	*log.Logger
}

var singleton *logger

// LogLevel is the minimum severity that reaches the log output.
type LogLevel = log.Level

const (
	LogLevelDebug = log.DebugLevel
	LogLevelInfo  = log.InfoLevel
	LogLevelWarn  = log.WarnLevel
	LogLevelError = log.ErrorLevel
)

func getLogger() *logger {
	once.Do(
		func() {
			l := log.NewWithOptions(os.Stderr, log.Options{
				ReportCaller:    true,
				ReportTimestamp: true,
				TimeFormat:      time.RFC3339,
				Prefix:          "Gallery 🦴 ",
			})
			l.SetLevel(log.InfoLevel)
			singleton = &logger{l}
		})
	return singleton
}

// ParseLogLevel converts a level name (debug, info, warn, error) into a LogLevel.
func ParseLogLevel(level string) (LogLevel, error) {
	return log.ParseLevel(level)
}

func SetLogLevel(level LogLevel) {
	getLogger().SetLevel(level)
}

// SetLogOutput redirects every subsequent log line to w.
func SetLogOutput(w io.Writer) {
	getLogger().SetOutput(w)
}

func LogDebug(msg string, args ...interface{}) {
	getLogger().Helper()
	getLogger().Debugf(msg, args...)
}

func LogInfo(msg string, args ...interface{}) {
	getLogger().Helper()
	getLogger().Infof(msg, args...)
}

func LogWarn(msg string, args ...interface{}) {
	getLogger().Helper()
	getLogger().Warnf(msg, args...)
}

func LogError(msg string, args ...interface{}) {
	getLogger().Helper()
	getLogger().Errorf(msg, args...)
}

func LogFatal(msg string, args ...interface{}) {
	getLogger().Helper()
	getLogger().Fatalf(msg, args...)
}
