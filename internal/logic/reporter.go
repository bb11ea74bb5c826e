package logic

import "time"

// Reporter drains the accumulator on a fixed cadence and converts the
// high/low split into a decibel reading.
type Reporter struct {
	cadence       time.Duration
	scale         float64
	startTime     time.Time
	lastReport    time.Time
	lastHeartbeat time.Time
	readings      uint64
	suppressed    uint64
}

// NewReporter creates a reporter with the given cadence and dB scale
// factor. lastReport is deliberately left at the zero value so the first
// due tick always fires.
func NewReporter(cadence time.Duration, scale float64, startTime time.Time) *Reporter {
	return &Reporter{
		cadence:       cadence,
		scale:         scale,
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
}

// Tick performs one pass of the reporting loop. It is a no-op until the
// cadence has elapsed since the last report. Once due it drains the
// accumulator unconditionally; a cycle with zero accumulated time is
// suppressed (no reading returned) but still resets the buckets.
func (r *Reporter) Tick(now time.Time, acc *Accumulator) (Reading, bool) {
	if now.Sub(r.lastReport) < r.cadence {
		return Reading{}, false
	}
	r.lastReport = now

	high, low := acc.Drain()
	total := high + low
	if total == 0 {
		r.suppressed++
		return Reading{}, false
	}

	duty := float64(high) / float64(total) * 100.0
	r.readings++
	return Reading{
		Timestamp:        now,
		HighMicros:       high,
		LowMicros:        low,
		DutyCyclePercent: duty,
		Decibels:         duty * r.scale,
	}, true
}

// Readings returns the number of readings emitted since startup.
func (r *Reporter) Readings() uint64 {
	return r.readings
}

// Suppressed returns the number of zero-total cycles since startup.
func (r *Reporter) Suppressed() uint64 {
	return r.suppressed
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since
// the last heartbeat (or startup). Returns nil if the interval has not
// elapsed or is <= 0 (disabled).
func (r *Reporter) CheckHeartbeat(now time.Time, interval time.Duration, counts Counts) *HeartbeatData {
	if interval <= 0 {
		return nil
	}

	if now.Sub(r.lastHeartbeat) < interval {
		return nil
	}

	r.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(r.startTime),
		Counts:    counts,
	}
}
