package edgemotion

// Scheduler is a single-slot timer owned by one Generator. Arm replaces any
// pending deadline; Cancel is synchronous, no callback may run after it
// returns. Callbacks must run on the same goroutine that calls Frame.
type Scheduler interface {
	Arm(deadline uint64, fn func(now uint64))
	Cancel()
}

// SimScheduler is a Scheduler driven by a simulated clock. Advance fires the
// pending callback each time its deadline is reached.
type SimScheduler struct {
	now      uint64
	deadline uint64
	fn       func(now uint64)
	armed    bool
	fired    int
}

func NewSimScheduler(start uint64) *SimScheduler {
	return &SimScheduler{now: start}
}

func (s *SimScheduler) Arm(deadline uint64, fn func(now uint64)) {
	s.deadline = deadline
	s.fn = fn
	s.armed = true
}

func (s *SimScheduler) Cancel() {
	s.armed = false
	s.fn = nil
}

func (s *SimScheduler) Now() uint64 { return s.now }

// Pending reports whether a callback is armed and its deadline.
func (s *SimScheduler) Pending() (uint64, bool) {
	return s.deadline, s.armed
}

// Fired is the number of callbacks run so far.
func (s *SimScheduler) Fired() int { return s.fired }

// Advance moves the clock forward by us microseconds, running every callback
// whose deadline falls within the window at its deadline.
func (s *SimScheduler) Advance(us uint64) {
	s.AdvanceTo(s.now + us)
}

func (s *SimScheduler) AdvanceTo(t uint64) {
	for s.armed && s.deadline <= t {
		s.now = max(s.now, s.deadline)
		fn := s.fn
		s.armed = false
		s.fn = nil
		s.fired++
		fn(s.now)
	}
	if t > s.now {
		s.now = t
	}
}
