// Package logwhere decides where log output goes and builds a zerolog
// logger that writes there.
package logwhere

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// where turns a destination into a writer.
// "" throws everything away, "stdout" and "stderr" are what they say and
// anything else is a file name that we append to.
func where(dest string) (io.Writer, io.Closer, error) {
	switch strings.ToLower(dest) {
	case "":
		return io.Discard, nopCloser{}, nil
	case "stdout":
		return os.Stdout, nopCloser{}, nil
	case "stderr":
		return os.Stderr, nopCloser{}, nil
	}
	fp, err := os.OpenFile(dest, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return fp, fp, nil
}

// New returns a logger writing to dest at level. With asJSON false, the
// output is zerolog's console format, without colour if dest is a file.
// Close the returned Closer when you are finished logging.
func New(dest, level string, asJSON bool) (zerolog.Logger, io.Closer, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	w, c, err := where(dest)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	if !asJSON && w != io.Discard {
		_, isFile := c.(*os.File)
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: isFile}
	}
	log := zerolog.New(w).Level(lvl).With().Timestamp().Str("app", "cifatom").Logger()
	return log, c, nil
}
