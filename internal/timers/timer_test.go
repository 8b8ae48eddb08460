package timers

import (
	"testing"
	"time"
)

type fakeSource struct {
	tick uint64
	hz   int
}

func (f *fakeSource) Tick() uint64    { return f.tick }
func (f *fakeSource) TickRateHz() int { return f.hz }

func TestTickTimer_ElapsesByTicks(t *testing.T) {
	src := &fakeSource{hz: 5}
	tm := NewTickTimer(src, 2.0) // 10 ticks at 5Hz

	if tm.Elapsed() {
		t.Fatalf("fresh timer must not be elapsed")
	}
	src.tick = 9
	if tm.Elapsed() {
		t.Fatalf("9 ticks < 10 tick interval")
	}
	src.tick = 10
	if !tm.Elapsed() {
		t.Fatalf("10 ticks should elapse a 2s@5Hz timer")
	}

	tm.Reset()
	if tm.Elapsed() {
		t.Fatalf("reset must rearm the timer")
	}
	src.tick = 25
	if !tm.Elapsed() {
		t.Fatalf("expected elapsed after reset+interval")
	}
}

func TestTickTimer_ForceElapsed(t *testing.T) {
	src := &fakeSource{hz: 5}
	tm := NewTickTimer(src, 60)
	tm.ForceElapsed()
	if !tm.Elapsed() {
		t.Fatalf("forced timer must report elapsed")
	}
	tm.Reset()
	if tm.Elapsed() {
		t.Fatalf("reset must clear the forced flag")
	}
}

func TestClockTimer_ElapsesByWallTime(t *testing.T) {
	cur := time.Unix(1000, 0)
	now := func() time.Time { return cur }
	tm := NewClockTimerAt(now, 5)

	if tm.Elapsed() {
		t.Fatalf("fresh timer must not be elapsed")
	}
	cur = cur.Add(4 * time.Second)
	if tm.Elapsed() {
		t.Fatalf("4s < 5s interval")
	}
	cur = cur.Add(time.Second)
	if !tm.Elapsed() {
		t.Fatalf("5s should elapse")
	}

	tm.SetInterval(60)
	tm.Reset()
	cur = cur.Add(10 * time.Second)
	if tm.Elapsed() {
		t.Fatalf("interval change must be respected")
	}
}
