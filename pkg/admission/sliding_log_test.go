package admission

import (
	"testing"
	"time"
)

func TestSlidingLog_Basic(t *testing.T) {
	log := NewSlidingLog(3, time.Second)
	at := time.UnixMilli(0)

	for i := 0; i < 3; i++ {
		if !log.Admit(1, at) {
			t.Fatalf("admit %d: expected allow under capacity", i+1)
		}
	}
	if log.Admit(1, at) {
		t.Fatal("expected deny at capacity")
	}
}

func TestSlidingLog_Eviction(t *testing.T) {
	log := NewSlidingLog(2, time.Second)

	if !log.Admit(1, time.UnixMilli(0)) {
		t.Fatal("expected first admit")
	}
	if !log.Admit(1, time.UnixMilli(100)) {
		t.Fatal("expected second admit")
	}
	if log.Admit(1, time.UnixMilli(200)) {
		t.Fatal("expected deny with both entries in window")
	}

	// The entry at 0ms falls out of a 1s window at 1000ms; the one at
	// 100ms is still inside.
	if !log.Admit(1, time.UnixMilli(1000)) {
		t.Fatal("expected admit after oldest entry expired")
	}
	if log.Admit(1, time.UnixMilli(1000)) {
		t.Fatal("expected deny, window full again")
	}
}

func TestSlidingLog_Boundedness(t *testing.T) {
	// The retained log never exceeds capacity, no matter how many events
	// are offered: denials never append.
	log := NewSlidingLog(5, time.Minute)
	at := time.UnixMilli(0)

	for i := 0; i < 100; i++ {
		log.Admit(1, at.Add(time.Duration(i)*time.Millisecond))
	}
	if got := len(log.log); got > 5 {
		t.Fatalf("retained %d timestamps, capacity is 5", got)
	}
}

func TestSlidingLog_OutOfOrderEvent(t *testing.T) {
	log := NewSlidingLog(2, time.Second)

	log.Admit(1, time.UnixMilli(5000))
	// An older event must not evict the newer entry and must count against
	// the same window.
	if !log.Admit(1, time.UnixMilli(4500)) {
		t.Fatal("expected admit for out-of-order event under capacity")
	}
	if log.Admit(1, time.UnixMilli(4600)) {
		t.Fatal("expected deny at capacity")
	}
}

func TestSlidingLog_Remaining(t *testing.T) {
	log := NewSlidingLog(3, time.Second)
	at := time.UnixMilli(0)

	if got := log.Remaining(); got != 3 {
		t.Fatalf("got %d remaining, want 3", got)
	}
	log.Admit(1, at)
	if got := log.Remaining(); got != 2 {
		t.Fatalf("got %d remaining, want 2", got)
	}
}
