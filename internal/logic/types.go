// Package logic contains the pure measurement pipeline: edge-time
// accumulation, duty-cycle-to-decibel conversion, and window peak tracking.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time or timestamp parameters.
package logic

import "time"

// Measurement defaults. The scale factor converts a duty-cycle percentage
// into a decibel reading and comes straight from the sound meter's
// datasheet; it is a device constant, not derived.
const (
	DefaultCadence  = 250 * time.Millisecond
	DefaultWindow   = 10 * time.Second
	DefaultScale    = 3.3
	DefaultMinLevel = 45.0
)

// Reading is a single duty-cycle measurement produced at the report cadence.
type Reading struct {
	Timestamp        time.Time
	HighMicros       uint64
	LowMicros        uint64
	DutyCyclePercent float64
	Decibels         float64
}

// Peak is the loudest reading observed during one publishing window.
// Decibels is zero for a window that saw no readings.
type Peak struct {
	Timestamp time.Time
	Decibels  float64
}

// Counts tracks pipeline activity since startup.
type Counts struct {
	Edges      uint64 // transitions recorded by the accumulator
	Readings   uint64 // readings emitted by the reporter
	Suppressed uint64 // report cycles with zero accumulated time
	Windows    uint64 // completed peak windows
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    Counts
}
