// Package logging configures bvr's structured logger. It mirrors the
// teacher's own practice of routing operational messages to stderr
// (cmd/local/main.go's fmt.Fprintf(os.Stderr, ...) calls), upgraded to
// zerolog's structured fields since the teacher carried zerolog in its
// go.mod without ever wiring it up.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger. debug enables verbose
// (debug-level) indexer and worker lifecycle logging; otherwise only
// info-and-above messages are emitted, the way the teacher's dashboard
// stayed quiet unless something needed attention.
func Init(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer = os.Stderr
	if isTerminal(os.Stderr) {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	}

	logger := zerolog.New(out).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	return logger
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
