// Package edgemotion keeps a tap-and-drag going when the dragging finger
// reaches the edge of a touchpad, by synthesizing pointer motion on a
// periodic timer for as long as the finger stays near the edge.
//
// One Generator exists per device. Frame and the timer callback must be
// called from the same goroutine; nothing here locks.
package edgemotion

import "fmt"

// Phase is the state of the edge motion state machine.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseDraggingCentered
	PhaseEdgeEntry
	PhaseEdgeContinuous
	PhaseEdgeExit
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseDraggingCentered:
		return "DraggingCentered"
	case PhaseEdgeEntry:
		return "EdgeEntry"
	case PhaseEdgeContinuous:
		return "EdgeContinuous"
	case PhaseEdgeExit:
		return "EdgeExit"
	}
	return fmt.Sprintf("Phase(%d)", uint8(p))
}

// EdgeActive reports whether p synthesizes motion.
func (p Phase) EdgeActive() bool {
	return p == PhaseEdgeEntry || p == PhaseEdgeContinuous
}

type ContactState uint8

const (
	ContactNone ContactState = iota
	ContactHovering
	ContactActive
)

// Touch is one entry of the host's touch table.
type Touch struct {
	Pos   Point
	State ContactState
}

// TouchTable is the externally owned set of touches. The generator keeps a
// reference to it only while edge-active and re-resolves its slot on every
// tick; a slot that disappeared counts as edge loss.
type TouchTable interface {
	Len() int
	At(slot int) (Touch, bool)
}

// TouchSlice is a TouchTable backed by a slice.
type TouchSlice []Touch

func (s TouchSlice) Len() int { return len(s) }

func (s TouchSlice) At(slot int) (Touch, bool) {
	if slot < 0 || slot >= len(s) {
		return Touch{}, false
	}
	return s[slot], true
}

// Filter is the acceleration/preferences transform from raw device-unit
// deltas to emitted deltas.
type Filter interface {
	Filter(raw Vec, time uint64) Vec
}

type FilterFunc func(raw Vec, time uint64) Vec

func (f FilterFunc) Filter(raw Vec, time uint64) Vec { return f(raw, time) }

// Identity passes raw deltas through unchanged.
var Identity Filter = FilterFunc(func(raw Vec, _ uint64) Vec { return raw })

// Sink receives synthesized pointer motion.
type Sink interface {
	PointerMotion(time uint64, delta, raw Vec)
}

type SinkFunc func(time uint64, delta, raw Vec)

func (f SinkFunc) PointerMotion(time uint64, delta, raw Vec) { f(time, delta, raw) }

// State is a snapshot of a generator, for diagnostics.
type State struct {
	Phase         Phase
	PreviousPhase Phase
	Edges         Edge
	Direction     Vec
	Speed         Vec // per-axis zone multipliers
	EnteredAt     uint64
	LastTickAt    uint64
	TickCount     uint64
	ActiveSlot    int // -1 unless edge-active
}

// Generator owns the edge motion state of one device.
type Generator struct {
	cfg    Config
	cal    Calibration
	sched  Scheduler
	filter Filter
	sink   Sink

	st        State
	touches   TouchTable
	firstTick bool
	closed    bool
	tickFn    func(now uint64)
}

// NewGenerator returns an idle generator. A nil filter means Identity; a nil
// sink drops motion.
func NewGenerator(cfg Config, cal Calibration, sched Scheduler, filter Filter, sink Sink) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("edgemotion: %w", err)
	}
	if sched == nil {
		return nil, fmt.Errorf("edgemotion: nil scheduler")
	}
	if filter == nil {
		filter = Identity
	}
	if sink == nil {
		sink = SinkFunc(func(uint64, Vec, Vec) {})
	}
	g := &Generator{
		cfg:    cfg,
		cal:    cal,
		sched:  sched,
		filter: filter,
		sink:   sink,
	}
	g.st.ActiveSlot = -1
	g.tickFn = g.tick
	sched.Cancel()
	return g, nil
}

func (g *Generator) Snapshot() State { return g.st }

func (g *Generator) Phase() Phase { return g.st.Phase }

// Close cancels the timer and parks the generator in Idle; all later frames
// are ignored.
func (g *Generator) Close() {
	if g.closed {
		return
	}
	g.stop()
	if g.st.Phase != PhaseIdle {
		g.st.PreviousPhase = g.st.Phase
		g.st.Phase = PhaseIdle
	}
	g.closed = true
}

// Frame feeds one processed input frame. now is a monotonic timestamp in
// microseconds.
func (g *Generator) Frame(now uint64, dragActive bool, touches TouchTable) {
	if g.closed {
		return
	}
	slot, edges := -1, EdgeNone
	if touches != nil {
		if s, t, ok := firstActive(touches); ok {
			slot = s
			edges = Detect(t.Pos, g.cal, g.cfg.ThresholdMM)
		}
	}
	g.enter(nextPhase(g.st.Phase, dragActive, edges), now, edges, slot, touches)
}

// nextPhase is the transition table. Drag release wins over everything.
func nextPhase(cur Phase, dragActive bool, edges Edge) Phase {
	if !dragActive {
		return PhaseIdle
	}
	near := edges != EdgeNone
	switch cur {
	case PhaseIdle:
		if near {
			return PhaseEdgeEntry
		}
		return PhaseIdle
	case PhaseDraggingCentered:
		if near {
			return PhaseEdgeEntry
		}
		return PhaseDraggingCentered
	case PhaseEdgeEntry, PhaseEdgeContinuous:
		if near {
			return PhaseEdgeContinuous
		}
		return PhaseEdgeExit
	case PhaseEdgeExit:
		if near {
			return PhaseEdgeEntry
		}
		return PhaseDraggingCentered
	}
	// unreachable: phase is only ever assigned one of the constants above
	return PhaseIdle
}

func (g *Generator) enter(next Phase, now uint64, edges Edge, slot int, touches TouchTable) {
	cur := g.st.Phase
	if next == cur {
		if cur == PhaseEdgeContinuous {
			g.st.Edges = edges
			g.st.ActiveSlot = slot
			g.touches = touches
		}
		return
	}

	g.st.PreviousPhase = cur
	g.st.Phase = next
	g.st.EnteredAt = now
	g.cfg.tracef("edge-motion: %s -> %s (edges=%s)", cur, next, edges)

	switch next {
	case PhaseEdgeEntry:
		g.st.Edges = edges
		g.st.ActiveSlot = slot
		g.touches = touches
		g.st.Direction = DirectionOf(edges)
		if t, ok := touches.At(slot); ok {
			g.st.Speed = AxisMultipliers(t.Pos, g.cal, edges, g.cfg.Zones)
		}
		g.st.TickCount = 0
		g.st.LastTickAt = now
		g.firstTick = true
		g.tick(now)
	case PhaseEdgeContinuous:
		g.st.Edges = edges
		g.st.ActiveSlot = slot
		g.touches = touches
	case PhaseIdle, PhaseDraggingCentered, PhaseEdgeExit:
		g.stop()
	}
}

// stop cancels the timer and drops everything tied to the bound touch.
func (g *Generator) stop() {
	g.sched.Cancel()
	g.firstTick = false
	g.touches = nil
	g.st.ActiveSlot = -1
	g.st.Edges = EdgeNone
	g.st.Direction = Vec{}
	g.st.Speed = Vec{}
}

func firstActive(touches TouchTable) (int, Touch, bool) {
	for i := 0; i < touches.Len(); i++ {
		if t, ok := touches.At(i); ok && t.State == ContactActive {
			return i, t, true
		}
	}
	return -1, Touch{}, false
}
