// Package gpio delivers edge events from the monitored PWM line with
// hardware abstraction. The real implementation uses the Linux GPIO
// character device. The fake implementation allows testing without hardware.
package gpio

// DefaultPin is the BCM line carrying the sound meter's PWM output.
const DefaultPin = 15

// Edge is one observed transition on the monitored line.
type Edge struct {
	// Rising is true when the line transitioned low-to-high, i.e. the
	// line reads HIGH after this edge.
	Rising bool

	// Micros is the kernel event timestamp in microseconds.
	Micros uint64
}

// Watcher subscribes to both-edge events on the monitored line.
type Watcher interface {
	// Watch registers the handler for edge events. The handler runs on
	// the watcher's event goroutine and must be short and non-blocking.
	Watch(handler func(Edge)) error

	// Close releases GPIO resources.
	Close() error
}
