// Package simframe writes Frames out as NDJSON, either to an append-only
// file (CLI `tick run`) or streamed straight to a live reader (daemon SSE).
package simframe

import (
	"bufio"
	"io"
	"os"

	"github.com/aeonis-sim/aeonis/internal/domain"
)

// Writer appends Frames to an underlying io.Writer as NDJSON, flushing after
// every frame so a tailing reader sees each tick as it lands.
type Writer struct {
	w       *bufio.Writer
	closer  io.Closer
	ownsBuf bool
}

// NewWriter wraps an arbitrary io.Writer (e.g. an SSE response body).
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// OpenFile opens path for append (creating it if absent) and returns a
// Writer bound to it. Close must be called to flush and release the file.
func OpenFile(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	return &Writer{w: bufio.NewWriter(f), closer: f}, nil
}

// WriteFrame serializes and appends one frame, flushing immediately.
func (fw *Writer) WriteFrame(frame domain.Frame) error {
	line, err := frame.ToNDJSON()
	if err != nil {
		return err
	}
	if _, err := fw.w.WriteString(line); err != nil {
		return err
	}
	return fw.w.Flush()
}

// Close flushes any buffered data and closes the underlying file, if any.
func (fw *Writer) Close() error {
	if err := fw.w.Flush(); err != nil {
		return err
	}
	if fw.closer != nil {
		return fw.closer.Close()
	}
	return nil
}
