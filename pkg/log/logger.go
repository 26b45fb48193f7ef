// Package log configures the zerolog logger shared by the pipeline and wires
// the warning channel from pkg/errors into it.
package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/cytodiag/wdbc/pkg/errors"
)

// Setup configures the global zerolog level and output and installs a warning
// handler that logs library warnings at WARN level. When console is true the
// output is human-readable; otherwise JSON lines.
func Setup(level string, console bool) zerolog.Logger {
	var out io.Writer = os.Stderr
	if console {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}

	logger := zerolog.New(out).Level(ToLevel(level)).With().Timestamp().Logger()

	errors.SetWarningHandler(func(w error) {
		evt := logger.Warn()
		if obj, ok := w.(zerolog.LogObjectMarshaler); ok {
			evt.EmbedObject(obj).Msg("warning")
			return
		}
		evt.Err(w).Msg("warning")
	})

	return logger
}

// ToLevel maps a config string to a zerolog level, defaulting to info.
func ToLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Component returns a child logger tagged with a component name.
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}
