// Package logging builds the process logger from config.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects log level and an optional rotated log file.
type Options struct {
	Level     string
	File      string
	MaxSizeMB int
	// Stdout also writes to w when File is set.
	Stdout bool
}

// Level maps a config level name to slog; unknown names mean info.
func Level(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// New returns a text logger writing to w, or to a size-rotated file when
// opts.File is set. The returned closer releases the file.
func New(w io.Writer, opts Options) (*slog.Logger, io.Closer) {
	var out io.Writer = w
	var closer io.Closer = nopCloser{}

	if opts.File != "" {
		if !strings.HasSuffix(opts.File, ".log") {
			opts.File += ".log"
		}
		maxSize := opts.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 50
		}
		lj := &lumberjack.Logger{
			Filename: opts.File,
			MaxSize:  maxSize, // megabytes
			Compress: true,
		}
		closer = lj
		out = lj
		if opts.Stdout {
			out = io.MultiWriter(w, lj)
		}
	}

	log := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: Level(opts.Level)}))
	return log, closer
}

// Default is New with stdout and no file.
func Default() *slog.Logger {
	log, _ := New(os.Stdout, Options{})
	return log
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
