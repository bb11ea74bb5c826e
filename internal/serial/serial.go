// Package serial writes decibel readings to the serial channel the host
// side reads, with abstraction for testing. One line per reading.
package serial

import (
	"strconv"

	"github.com/sweeney/noise-meter/internal/logic"
)

// DefaultBaud matches the firmware convention for PWM sound meters.
const DefaultBaud = 9600

// Writer emits one line per reading.
type Writer interface {
	// WriteReading sends the reading's decibel value as one line.
	// Returns error if the write fails (should not crash the process).
	WriteReading(r logic.Reading) error

	// Close releases the port.
	Close() error
}

// FormatReading renders a reading the way the host side expects: the
// decibel value with two decimals, CRLF-terminated.
func FormatReading(r logic.Reading) []byte {
	line := strconv.FormatFloat(r.Decibels, 'f', 2, 64)
	return append([]byte(line), '\r', '\n')
}
