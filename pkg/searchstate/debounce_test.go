package searchstate

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_RapidCalls(t *testing.T) {
	var called, lastValue int32
	d := NewDebouncer(50 * time.Millisecond)

	for i := 1; i <= 5; i++ {
		value := int32(i)
		d.Debounce(func() {
			atomic.StoreInt32(&lastValue, value)
			atomic.AddInt32(&called, 1)
		})
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)

	if got := atomic.LoadInt32(&called); got != 1 {
		t.Errorf("expected 1 call, got %d", got)
	}
	if got := atomic.LoadInt32(&lastValue); got != 5 {
		t.Errorf("expected last value 5, got %d", got)
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	var called int32
	d := NewDebouncer(50 * time.Millisecond)

	d.Debounce(func() { atomic.AddInt32(&called, 1) })
	d.Cancel()
	time.Sleep(100 * time.Millisecond)

	if got := atomic.LoadInt32(&called); got != 0 {
		t.Errorf("expected 0 calls after cancel, got %d", got)
	}
	if d.Duration() != 50*time.Millisecond {
		t.Errorf("unexpected duration %s", d.Duration())
	}
}
