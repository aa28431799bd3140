package core

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

type LogLevel = log.Level

const (
	DebugLevel LogLevel = log.DebugLevel
	InfoLevel  LogLevel = log.InfoLevel
	WarnLevel  LogLevel = log.WarnLevel
	ErrorLevel LogLevel = log.ErrorLevel
	FatalLevel LogLevel = log.FatalLevel
)

// NewLogger builds the engine logger. Components receive a prefixed child
// through WithPrefix instead of reaching for a package-level instance.
func NewLogger(w io.Writer, level LogLevel) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	l := log.NewWithOptions(w, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "Engine 🏎️ ",
		Level:           level,
	})
	return l
}

// ParseLogLevel accepts the names used in the config file ("debug", "info",
// ...). Unknown names fall back to info.
func ParseLogLevel(name string) LogLevel {
	level, err := log.ParseLevel(name)
	if err != nil {
		return InfoLevel
	}
	return level
}
