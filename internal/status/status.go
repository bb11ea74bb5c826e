// Package status provides a thread-safe status tracker for the noise-meter
// daemon. It is read by HTTP handlers and serialized into MQTT system events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/noise-meter/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	Pin         int
	CadenceMs   int64
	WindowMs    int64
	HeartbeatMs int64
	Scale       float64
	MinLevel    float64
	Broker      string
	SerialPort  string
	Baud        int
	DBPath      string
	HTTPAddr    string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Level            float64 // last reported dB
	DutyCyclePercent float64 // last reported duty cycle
	LastReadingAt    time.Time
	PeakLevel        float64 // loudest reading since startup
	WindowPeak       float64 // last completed window's peak
	Ready            bool    // true once the first reading was produced
	Counts           logic.Counts
	StoredEvents     uint64
	StartTime        time.Time
	Now              time.Time
	MQTTConnected    bool
	Config           Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// UpdateReading records the latest reading. Called from the run loop on
// every emitted cycle.
func (t *Tracker) UpdateReading(r logic.Reading) {
	t.mu.Lock()
	t.snap.Level = r.Decibels
	t.snap.DutyCyclePercent = r.DutyCyclePercent
	t.snap.LastReadingAt = r.Timestamp
	t.snap.Ready = true
	if r.Decibels > t.snap.PeakLevel {
		t.snap.PeakLevel = r.Decibels
	}
	t.mu.Unlock()
}

// SetCounts sets the pipeline activity counters.
func (t *Tracker) SetCounts(c logic.Counts) {
	t.mu.Lock()
	t.snap.Counts = c
	t.mu.Unlock()
}

// SetWindowPeak records the last completed window's peak.
func (t *Tracker) SetWindowPeak(decibels float64) {
	t.mu.Lock()
	t.snap.WindowPeak = decibels
	t.mu.Unlock()
}

// AddStoredEvent increments the stored-event counter.
func (t *Tracker) AddStoredEvent() {
	t.mu.Lock()
	t.snap.StoredEvents++
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
