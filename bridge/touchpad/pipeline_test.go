package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"touchpad-edgemotion/edgemotion"
)

type recordingSink struct {
	deltas []edgemotion.Vec
	phases []edgemotion.Phase
}

func (s *recordingSink) PointerMotion(_ uint64, delta, _ edgemotion.Vec) {
	s.deltas = append(s.deltas, delta)
}

func (s *recordingSink) EdgeState(_ uint64, st edgemotion.State) {
	s.phases = append(s.phases, st.Phase)
}

func (s *recordingSink) Close() error { return nil }

// The same steps the dispatch loop runs for each frame, on a simulated clock.
func TestTapDragToEdgePipeline(t *testing.T) {
	ax := deviceAxes{
		x:          absInfo{Min: 0, Max: 1000, Resolution: 10},
		y:          absInfo{Min: 0, Max: 700, Resolution: 10},
		slots:      2,
		multitouch: true,
	}
	cal := ax.calibration(DeviceConfig{})
	sched := edgemotion.NewSimScheduler(0)
	sink := &recordingSink{}
	gen, err := edgemotion.NewGenerator(edgemotion.DefaultConfig(), cal, sched, newFlatAccel(0, cal), sink)
	require.NoError(t, err)
	defer gen.Close()

	tracker := newTouchTracker(ax)
	drag := newDragDetector(dragSourceTap, cal)
	table := make(edgemotion.TouchSlice, len(tracker.slots))

	step := func(dt uint64, evs ...inputEvent) {
		sched.Advance(dt)
		for _, fr := range feedEvents(tracker, append(evs, synReport)...) {
			now := sched.Now()
			copy(table, fr.touches)
			prev := gen.Phase()
			gen.Frame(now, drag.update(now, fr), table)
			if st := gen.Snapshot(); st.Phase != prev {
				sink.EdgeState(now, st)
			}
		}
	}

	// tap
	step(0, abs(ABS_MT_TRACKING_ID, 1), abs(ABS_MT_POSITION_X, 500), abs(ABS_MT_POSITION_Y, 350))
	step(60_000, abs(ABS_MT_TRACKING_ID, -1))
	// touch again and drag to the left edge
	step(100_000, abs(ABS_MT_TRACKING_ID, 2), abs(ABS_MT_POSITION_X, 500))
	step(10_000, abs(ABS_MT_POSITION_X, 300))
	assert.Empty(t, sink.phases, "dragging in the middle does not enter edge motion")
	step(10_000, abs(ABS_MT_POSITION_X, 20))
	require.Equal(t, []edgemotion.Phase{edgemotion.PhaseEdgeEntry}, sink.phases)

	for i := 0; i < 5; i++ {
		step(8_000)
	}
	require.Len(t, sink.deltas, 5)
	want := -0.64 * 10 / 10 * normalizedDPI / 25.4
	for _, d := range sink.deltas {
		assert.InDelta(t, want, d.X, 1e-6)
		assert.Equal(t, 0.0, d.Y)
	}

	// lifting the finger ends the drag and the motion
	step(1_000, abs(ABS_MT_TRACKING_ID, -1))
	assert.Equal(t, edgemotion.PhaseIdle, gen.Phase())
	sched.Advance(80_000)
	assert.Len(t, sink.deltas, 5)
}
