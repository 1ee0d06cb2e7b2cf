// Package logging builds the zerolog loggers used across studynotes.
//
// All surfaces log to stderr: stdout carries MCP stdio frames and CLI JSON.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const filePermission = 0600

// Options configures a logger.
type Options struct {
	Level   string    // zerolog level name, defaults to info
	Writer  io.Writer // defaults to os.Stderr
	Path    string    // optional log file; takes precedence over Writer
	Console bool      // human-readable output instead of JSON
}

// New builds a logger from opts. The returned closer releases the log file, if any.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	var w io.Writer = os.Stderr
	if opts.Writer != nil {
		w = opts.Writer
	}

	var closer io.Closer = nopCloser{}
	if opts.Path != "" {
		f, err := os.OpenFile(opts.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePermission)
		if err != nil {
			return zerolog.Nop(), nil, err
		}
		w = zerolog.SyncWriter(f)
		closer = f
	}

	if opts.Console {
		w = zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: "15:04:05"}
	}

	logger := zerolog.New(w).With().Timestamp().Logger().Level(ParseLevel(opts.Level))
	return logger, closer, nil
}

// ParseLevel maps a level name to a zerolog level. Unknown names map to info.
func ParseLevel(name string) zerolog.Level {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(name)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
