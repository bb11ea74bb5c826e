package logic

import "time"

// PeakTracker records the loudest reading over a fixed publishing window.
// Window peaks are what the host integrations chart; per-reading output
// stays on the serial channel.
type PeakTracker struct {
	window      time.Duration
	windowStart time.Time
	peak        float64
	windows     uint64
}

// NewPeakTracker creates a tracker whose first window starts at start.
func NewPeakTracker(window time.Duration, start time.Time) *PeakTracker {
	return &PeakTracker{window: window, windowStart: start}
}

// Observe feeds one reading into the current window.
func (p *PeakTracker) Observe(r Reading) {
	if r.Decibels > p.peak {
		p.peak = r.Decibels
	}
}

// Roll closes the window once it has elapsed and returns its peak. A
// window that saw no readings yields a zero peak, which is still
// published; the host side charts silence as 0 dB.
func (p *PeakTracker) Roll(now time.Time) (Peak, bool) {
	if now.Sub(p.windowStart) < p.window {
		return Peak{}, false
	}

	peak := Peak{Timestamp: now, Decibels: p.peak}
	p.windowStart = now
	p.peak = 0
	p.windows++
	return peak, true
}

// Windows returns the number of completed windows since startup.
func (p *PeakTracker) Windows() uint64 {
	return p.windows
}
