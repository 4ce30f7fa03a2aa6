// Package logging builds the zerolog handle shared by every component.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

const timeFormat = "2006-01-02 15:04:05"

// Options controls where log lines go
type Options struct {
	Level   string
	File    string    // append-only log file, empty disables it
	Console io.Writer // defaults to os.Stdout
	NoColor bool
}

// Logger wraps the zerolog handle with the file it owns
type Logger struct {
	zerolog.Logger
	file *os.File
}

// New creates a logger writing to the console and, when configured, to an
// append-only file. Close releases the file.
func New(opts Options) (*Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	console := opts.Console
	if console == nil {
		console = os.Stdout
	}

	writers := []io.Writer{newConsoleWriter(console, opts.NoColor)}

	var file *os.File
	if opts.File != "" {
		if dir := filepath.Dir(opts.File); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory: %w", err)
			}
		}
		file, err = os.OpenFile(opts.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		writers = append(writers, newConsoleWriter(file, true))
	}

	zl := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &Logger{Logger: zl, file: file}, nil
}

// Nop returns a logger that discards everything (tests).
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

// Close flushes and closes the log file if one was opened.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// newConsoleWriter renders "time | LEVEL | message key=value"
func newConsoleWriter(out io.Writer, noColor bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    noColor,
		TimeFormat: timeFormat,
		FormatLevel: func(i interface{}) string {
			return fmt.Sprintf("| %-5s |", strings.ToUpper(fmt.Sprint(i)))
		},
	}
}
