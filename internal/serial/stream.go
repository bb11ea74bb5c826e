package serial

import (
	"io"

	"github.com/sweeney/noise-meter/internal/logic"
)

// StreamWriter writes readings to any io.Writer. Used when no serial
// device is configured (readings go to stdout) and in tests.
type StreamWriter struct {
	w io.Writer
}

// NewStreamWriter creates a writer around w.
func NewStreamWriter(w io.Writer) *StreamWriter {
	return &StreamWriter{w: w}
}

// WriteReading sends one reading line to the underlying writer.
func (s *StreamWriter) WriteReading(r logic.Reading) error {
	_, err := s.w.Write(FormatReading(r))
	return err
}

// Close is a no-op; the underlying writer is not owned.
func (s *StreamWriter) Close() error {
	return nil
}
