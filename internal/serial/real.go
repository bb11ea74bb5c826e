package serial

import (
	"fmt"

	goserial "go.bug.st/serial"

	"github.com/sweeney/noise-meter/internal/logic"
)

// RealWriter writes readings to an actual serial port.
type RealWriter struct {
	port goserial.Port
}

// NewRealWriter opens the serial device at the given baud rate.
func NewRealWriter(device string, baud int) (*RealWriter, error) {
	if baud == 0 {
		baud = DefaultBaud
	}

	port, err := goserial.Open(device, &goserial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", device, err)
	}

	return &RealWriter{port: port}, nil
}

// WriteReading sends one reading line to the port.
func (w *RealWriter) WriteReading(r logic.Reading) error {
	if _, err := w.port.Write(FormatReading(r)); err != nil {
		return fmt.Errorf("write reading: %w", err)
	}
	return nil
}

// Close releases the port.
func (w *RealWriter) Close() error {
	return w.port.Close()
}

// Ports returns the serial devices present on the system.
func Ports() ([]string, error) {
	ports, err := goserial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}
	return ports, nil
}
