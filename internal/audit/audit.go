// Package audit sets up the global zerolog logger.
package audit

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Log formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

var errUnknownFormat = errors.New("unknown log format")

// SetDefaultLogger gives a readable output before configuration is loaded.
func SetDefaultLogger() {
	log.Logger = log.Output(ConsoleWriter(os.Stderr))
}

// Setup points the global logger at out with the given level and format.
func Setup(out *os.File, level, format string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	w, err := Writer(out, format)
	if err != nil {
		return err
	}

	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(w).With().Timestamp().Logger()

	return nil
}

// Writer returns a zerolog writer for out in the given format.
func Writer(out *os.File, format string) (io.Writer, error) {
	switch format {
	case FormatConsole, "":
		return ConsoleWriter(out), nil
	case FormatJSON:
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownFormat, format)
	}
}

// ConsoleWriter returns a human-readable writer, coloured only when f is a terminal.
func ConsoleWriter(f *os.File) io.Writer {
	return zerolog.ConsoleWriter{
		Out:        f,
		NoColor:    !isTerminal(f),
		TimeFormat: time.DateTime,
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
