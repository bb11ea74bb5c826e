package mqtt

import (
	"fmt"
	"testing"
)

func msg(i int) bufferedMsg {
	return bufferedMsg{topic: TopicState, payload: []byte(fmt.Sprintf("peak-%d", i))}
}

func TestRingBufferPushDrain(t *testing.T) {
	r := newRingBuffer(4)

	r.push(msg(1))
	r.push(msg(2))
	r.push(msg(3))

	if r.len() != 3 {
		t.Errorf("len: got %d, want 3", r.len())
	}

	drained := r.drainAll()
	if len(drained) != 3 {
		t.Fatalf("drained: got %d, want 3", len(drained))
	}
	for i, m := range drained {
		want := fmt.Sprintf("peak-%d", i+1)
		if string(m.payload) != want {
			t.Errorf("drained[%d]: got %s, want %s (FIFO order)", i, m.payload, want)
		}
	}

	if r.len() != 0 {
		t.Errorf("len after drain: got %d, want 0", r.len())
	}
}

func TestRingBufferDrainEmpty(t *testing.T) {
	r := newRingBuffer(4)
	if drained := r.drainAll(); drained != nil {
		t.Errorf("drain of empty buffer: got %v, want nil", drained)
	}
}

func TestRingBufferOverflowDropsOldest(t *testing.T) {
	r := newRingBuffer(3)

	for i := 1; i <= 5; i++ {
		r.push(msg(i))
	}

	if r.len() != 3 {
		t.Errorf("len: got %d, want capacity 3", r.len())
	}

	drained := r.drainAll()
	want := []string{"peak-3", "peak-4", "peak-5"}
	for i, m := range drained {
		if string(m.payload) != want[i] {
			t.Errorf("drained[%d]: got %s, want %s", i, m.payload, want[i])
		}
	}
}

func TestRingBufferReusableAfterDrain(t *testing.T) {
	r := newRingBuffer(2)

	r.push(msg(1))
	r.push(msg(2))
	r.push(msg(3)) // overflow
	r.drainAll()

	r.push(msg(4))
	drained := r.drainAll()
	if len(drained) != 1 || string(drained[0].payload) != "peak-4" {
		t.Errorf("after drain: got %v", drained)
	}
}
