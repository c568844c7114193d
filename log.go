package main

import (
	"os"

	"github.com/rs/zerolog"
)

// logger is the process-wide logger. Components tag their events with a
// "component" field so interleaved decode/render output stays readable.
var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
	Level(zerolog.InfoLevel).
	With().
	Timestamp().
	Logger()

func setupLogger(debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
