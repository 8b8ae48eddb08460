// Package timers provides the cooldown gates consumed by behavior tasks.
//
// Two interchangeable flavors exist: TickTimer counts simulation ticks and
// so freezes when the simulation is paused, ClockTimer counts wall time and
// keeps running regardless. Tasks pick whichever matches the semantics of
// the thing they are waiting on.
package timers

import "time"

// Timer is the single cooldown interface tasks depend on.
type Timer interface {
	Elapsed() bool
	Reset()
	ForceElapsed()
	SetInterval(seconds float64)
}

// TickSource exposes the simulation clock a TickTimer counts against.
type TickSource interface {
	Tick() uint64
	TickRateHz() int
}

// TickTimer elapses after an interval measured in simulation ticks.
type TickTimer struct {
	src      TickSource
	interval float64 // seconds
	prev     uint64
	forced   bool
}

func NewTickTimer(src TickSource, intervalSeconds float64) *TickTimer {
	t := &TickTimer{src: src, interval: intervalSeconds}
	t.Reset()
	return t
}

func (t *TickTimer) intervalTicks() uint64 {
	hz := t.src.TickRateHz()
	if hz <= 0 {
		hz = 5
	}
	n := t.interval * float64(hz)
	if n < 0 {
		n = 0
	}
	return uint64(n)
}

func (t *TickTimer) Elapsed() bool {
	if t.forced {
		return true
	}
	return t.src.Tick()-t.prev >= t.intervalTicks()
}

func (t *TickTimer) Reset() {
	t.prev = t.src.Tick()
	t.forced = false
}

func (t *TickTimer) ForceElapsed() { t.forced = true }

func (t *TickTimer) SetInterval(seconds float64) { t.interval = seconds }

// ClockTimer elapses after an interval of wall time. The time source is
// injectable so tests do not sleep.
type ClockTimer struct {
	now      func() time.Time
	interval float64 // seconds
	prev     time.Time
	forced   bool
}

func NewClockTimer(intervalSeconds float64) *ClockTimer {
	return NewClockTimerAt(time.Now, intervalSeconds)
}

func NewClockTimerAt(now func() time.Time, intervalSeconds float64) *ClockTimer {
	t := &ClockTimer{now: now, interval: intervalSeconds}
	t.Reset()
	return t
}

func (t *ClockTimer) Elapsed() bool {
	if t.forced {
		return true
	}
	return t.now().Sub(t.prev).Seconds() >= t.interval
}

func (t *ClockTimer) Reset() {
	t.prev = t.now()
	t.forced = false
}

func (t *ClockTimer) ForceElapsed() { t.forced = true }

func (t *ClockTimer) SetInterval(seconds float64) { t.interval = seconds }
