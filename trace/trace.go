// Package trace emits a structured log of executed statements when the
// operator asks for one. Off by default; the TUI owns the terminal, so
// trace output always goes to a file.
package trace

import (
	"io"

	"github.com/rs/zerolog"
)

var logger = zerolog.Nop()

// Init routes trace events to w and turns tracing on
func Init(w io.Writer) {
	logger = zerolog.New(w).With().Timestamp().Logger()
}

// Step records one executed statement
func Step(line int, kind string) {
	logger.Debug().Int("line", line).Str("stmt", kind).Msg("step")
}

// Jump records a control transfer
func Jump(from, to int) {
	logger.Debug().Int("from", from).Int("to", to).Msg("jump")
}

// RunError records the error that ended the run
func RunError(err error) {
	logger.Error().Err(err).Msg("abort")
}
