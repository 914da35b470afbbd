package cli

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// newLogger returns a human-friendly logger writing to w.
// Debug messages are only emitted when debug is set. Walk callbacks log from
// several goroutines, so writes are serialized.
func newLogger(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}

	console := zerolog.NewConsoleWriter(func(cw *zerolog.ConsoleWriter) {
		cw.Out = w
		cw.TimeFormat = time.Kitchen
	})

	return zerolog.New(zerolog.SyncWriter(console)).Level(level).With().Timestamp().Logger()
}
