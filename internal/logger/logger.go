package logger

import (
	"strings"

	"github.com/rs/zerolog"
)

// Logger is the structured logging surface shared by the processing layers.
// component names the emitting part, e.g. "Chain" or "Pipeline".
type Logger interface {
	Debug(component, message string, fields map[string]interface{})
	Info(component, message string, fields map[string]interface{})
	Warning(component, message string, fields map[string]interface{})
	Error(component string, err error, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// ParseLevel maps debug, info, warn and error to zerolog levels. Anything
// else falls back to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return &ZerologAdapter{logger: zerolog.Nop()}
}
