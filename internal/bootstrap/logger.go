package bootstrap

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// NewLogger builds the process logger. format is one of json, logfmt or text.
func NewLogger(level, format string) *log.Logger {
	return newLogger(os.Stderr, level, format)
}

func newLogger(w io.Writer, level, format string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           parseLogLevel(level),
		Formatter:       parseLogFormatter(format),
		ReportTimestamp: true,
		Prefix:          "todo-api",
	})
}

func parseLogLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func parseLogFormatter(format string) log.Formatter {
	switch format {
	case "text":
		return log.TextFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.JSONFormatter
	}
}
