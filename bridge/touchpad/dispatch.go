package main

// The dispatch goroutine owns the generator. Frames arrive over a channel
// from the reader goroutine and the edge motion timer is a time.Timer whose
// channel the same select waits on, so frame handling and ticks never overlap.

import "time"

// monoClock reports microseconds since the bridge started, on the
// monotonic clock.
type monoClock struct {
	start time.Time
}

func newMonoClock() monoClock { return monoClock{start: time.Now()} }

func (c monoClock) Now() uint64 {
	return uint64(time.Since(c.start).Microseconds())
}

// loopTimer implements edgemotion.Scheduler on top of one time.Timer. The
// dispatch loop calls fire when C() delivers.
type loopTimer struct {
	clock    monoClock
	t        *time.Timer
	fn       func(now uint64)
	deadline uint64
	armed    bool
}

func newLoopTimer(clock monoClock) *loopTimer {
	return &loopTimer{clock: clock}
}

func (lt *loopTimer) Arm(deadline uint64, fn func(now uint64)) {
	lt.fn = fn
	lt.deadline = deadline
	lt.armed = true

	var d time.Duration
	if now := lt.clock.Now(); deadline > now {
		d = time.Duration(deadline-now) * time.Microsecond
	}
	if lt.t == nil {
		lt.t = time.NewTimer(d)
		return
	}
	// Go 1.23+ timers: Reset discards any value not yet received.
	lt.t.Reset(d)
}

func (lt *loopTimer) Cancel() {
	lt.armed = false
	lt.fn = nil
	if lt.t != nil {
		lt.t.Stop()
	}
}

// C is nil (blocks forever in a select) until the first Arm.
func (lt *loopTimer) C() <-chan time.Time {
	if lt.t == nil {
		return nil
	}
	return lt.t.C
}

func (lt *loopTimer) fire() {
	if !lt.armed {
		return
	}
	fn := lt.fn
	lt.armed = false
	lt.fn = nil
	fn(max(lt.clock.Now(), lt.deadline))
}
