// Package serial persists the emulated hardware's diagnostic serial output
// as an append-only byte stream.
package serial

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/afero"

	"github.com/lucav/go-pocket/pocket/core"
)

// Sink appends serial bytes to a log file through a buffered writer, so a
// PutByte never blocks on disk. Write failures are diagnostic-grade: they
// are logged once and counted, never surfaced to the emulation loop.
//
// The filesystem is abstracted with afero; production code passes the OS
// filesystem, tests a memory one.
type Sink struct {
	f afero.File
	w *bufio.Writer

	writeErrs uint64
}

// NewSink opens (or creates) the log file for appending. Failure to open is
// a startup precondition error and returned to the caller.
func NewSink(fs afero.Fs, path string) (*Sink, error) {
	f, err := fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial log %s: %w", path, err)
	}
	return &Sink{
		f: f,
		w: bufio.NewWriter(f),
	}, nil
}

// PutByte appends one byte to the log. Never fails the caller.
func (s *Sink) PutByte(b byte) {
	if err := s.w.WriteByte(b); err != nil {
		s.writeErrs++
		if s.writeErrs == 1 {
			slog.Warn("serial log write failed, output will be incomplete", "error", err)
		}
	}
}

// WriteErrors returns the number of failed byte writes.
func (s *Sink) WriteErrors() uint64 {
	return s.writeErrs
}

// Flush forces buffered bytes to the file.
func (s *Sink) Flush() error {
	return s.w.Flush()
}

// Close flushes and closes the log file. Part of the shutdown sequence; no
// PutByte may follow.
func (s *Sink) Close() error {
	flushErr := s.w.Flush()
	closeErr := s.f.Close()
	if flushErr != nil {
		return fmt.Errorf("failed to flush serial log: %w", flushErr)
	}
	return closeErr
}

var _ core.SerialOutput = (*Sink)(nil)
