// Package logging provides the append-only conversion log.
//
// Every record is one line of the form
//
//	2006-01-02 15:04:05 - LEVEL - message
//
// Writes from concurrent workers are serialized so lines never interleave.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultFile is the log location, relative to the working directory.
const DefaultFile = "conversion.log"

// TimeFormat is the layout of the leading timestamp.
const TimeFormat = "2006-01-02 15:04:05"

// Sink is a logger bound to an open log file.
type Sink struct {
	zerolog.Logger
	file *os.File
}

// Open appends to the log file at path, creating it and its parent
// directories if needed. Call Close when done.
func Open(path string) (*Sink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return &Sink{Logger: NewWithWriter(f), file: f}, nil
}

// Close closes the underlying log file.
func (s *Sink) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// NewWithWriter returns a logger writing formatted lines to w.
func NewWithWriter(w io.Writer) zerolog.Logger {
	out := zerolog.ConsoleWriter{
		Out:        zerolog.SyncWriter(w),
		NoColor:    true,
		TimeFormat: TimeFormat,
		PartsOrder: []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			zerolog.MessageFieldName,
		},
		FormatLevel: formatLevel,
	}
	return zerolog.New(out).With().Timestamp().Logger()
}

// formatLevel renders the level between the separators, e.g. "- INFO -".
func formatLevel(i interface{}) string {
	level, ok := i.(string)
	if !ok || level == "" {
		level = "?"
	}
	return "- " + strings.ToUpper(level) + " -"
}
