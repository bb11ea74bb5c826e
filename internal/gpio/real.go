//go:build linux

package gpio

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// RealWatcher subscribes to edge events on actual hardware using the
// Linux GPIO character device.
type RealWatcher struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
	pin  int
}

// NewRealWatcher opens the GPIO chip for the given BCM pin. The line is
// not requested until Watch is called.
func NewRealWatcher(pin int) (*RealWatcher, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	return &RealWatcher{chip: chip, pin: pin}, nil
}

// Watch requests the line as input with both-edge detection and delivers
// every transition to the handler. Pull-down matches Pi boot defaults so a
// disconnected meter reads as silence rather than floating noise.
func (w *RealWatcher) Watch(handler func(Edge)) error {
	line, err := w.chip.RequestLine(w.pin,
		gpiocdev.AsInput,
		gpiocdev.WithPullDown,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(func(evt gpiocdev.LineEvent) {
			handler(Edge{
				Rising: evt.Type == gpiocdev.LineEventRisingEdge,
				Micros: uint64(evt.Timestamp / time.Microsecond),
			})
		}))
	if err != nil {
		return fmt.Errorf("request pin %d: %w", w.pin, err)
	}

	w.line = line
	return nil
}

// Close releases GPIO resources. The line is reconfigured to input with
// pull-down (matching Pi boot defaults) before closing to ensure clean
// state for system shutdown/reboot.
func (w *RealWatcher) Close() error {
	var errs []error

	if w.line != nil {
		if err := w.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure pin: %w", err))
		}
		if err := w.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pin: %w", err))
		}
	}
	if w.chip != nil {
		if err := w.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
