// Package obslog wires the process-wide structured logger.
package obslog

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var base zerolog.Logger

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	base = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Logger()
}

// Configure sets the minimum level for the process logger. Unrecognized
// levels fall back to info.
func Configure(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// For returns a logger scoped to a component name.
func For(component string) zerolog.Logger {
	return base.With().Str("component", component).Logger()
}

// Fatal logs a structured fatal event and terminates the process. Reserved
// for invariant violations that leave the process in an unrecoverable state.
func Fatal(component, msg string, err error) {
	base.Fatal().Str("component", component).Err(err).Msg(msg)
}
