package cliutil

import (
	"os"

	"github.com/rs/zerolog"
)

// NewLogger returns the console-writer zerolog logger every cmd/* tool
// shares. verbose raises the level to Debug (per-iteration drift/EV/
// exploitability); otherwise only Info and above are shown.
func NewLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}
