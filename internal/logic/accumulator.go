package logic

import "sync"

// Accumulator attributes the time between consecutive edges to the level
// the signal held before each transition. Record runs on the GPIO event
// goroutine and must stay cheap; Drain runs on the reporting loop.
type Accumulator struct {
	mu         sync.Mutex
	highMicros uint64
	lowMicros  uint64
	lastEdge   uint64
	edges      uint64
}

// NewAccumulator creates an empty accumulator. lastEdge starts at zero, so
// the first edge attributes the time since boot to one bucket; the first
// report cycle flushes the skew.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Record handles one observed transition. nowHigh is the level of the line
// after the edge, micros the event timestamp. A rising edge means the line
// was low until this instant, so the elapsed time is credited to the low
// bucket, and vice versa. Unsigned subtraction keeps deltas valid across a
// single timer wrap between consecutive edges.
func (a *Accumulator) Record(nowHigh bool, micros uint64) {
	a.mu.Lock()
	delta := micros - a.lastEdge
	if nowHigh {
		a.lowMicros += delta
	} else {
		a.highMicros += delta
	}
	a.lastEdge = micros
	a.edges++
	a.mu.Unlock()
}

// Drain returns the accumulated high and low time in microseconds and
// resets both buckets. The snapshot and reset are atomic with respect to
// Record, so no transition's time can straddle two report cycles.
func (a *Accumulator) Drain() (high, low uint64) {
	a.mu.Lock()
	high, low = a.highMicros, a.lowMicros
	a.highMicros, a.lowMicros = 0, 0
	a.mu.Unlock()
	return high, low
}

// Edges returns the number of transitions recorded since startup.
func (a *Accumulator) Edges() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.edges
}
