package edgemotion

// tick is the timer callback. The first pass after EdgeEntry only records
// the time and arms the timer, so no catch-up motion is produced.
func (g *Generator) tick(now uint64) {
	if g.closed || !g.st.Phase.EdgeActive() {
		return
	}
	if g.firstTick {
		g.firstTick = false
		g.st.LastTickAt = now
		g.sched.Arm(now+g.cfg.IntervalUs, g.tickFn)
		return
	}

	var elapsed uint64
	if now > g.st.LastTickAt {
		elapsed = now - g.st.LastTickAt
	}

	g.refresh()

	secs := float64(elapsed) / 1e6
	dist := g.cfg.BaseSpeedMMs * secs
	move := Vec{
		X: dist * g.st.Speed.X * g.st.Direction.X,
		Y: dist * g.st.Speed.Y * g.st.Direction.Y,
	}
	if move.Len() >= g.cfg.JitterFloorMM && move.Len() > 0 {
		raw := Vec{X: move.X * g.cal.AccelScaleX, Y: move.Y * g.cal.AccelScaleY}
		delta := g.filter.Filter(raw, now)
		g.sink.PointerMotion(now, delta, raw)
	}

	g.st.LastTickAt = now
	g.st.TickCount++
	g.sched.Arm(now+g.cfg.IntervalUs, g.tickFn)
}

// refresh recomputes direction and speed from the bound touch's current
// position. A vanished or edge-less touch stops motion for this tick; the
// next frame moves the state machine to EdgeExit.
func (g *Generator) refresh() {
	var t Touch
	ok := false
	if g.touches != nil {
		t, ok = g.touches.At(g.st.ActiveSlot)
	}
	if !ok || t.State != ContactActive {
		g.st.Direction, g.st.Speed = Vec{}, Vec{}
		return
	}
	edges := Detect(t.Pos, g.cal, g.cfg.ThresholdMM)
	if edges == EdgeNone {
		g.st.Direction, g.st.Speed = Vec{}, Vec{}
		return
	}
	g.st.Edges = edges
	g.st.Direction = DirectionOf(edges)
	g.st.Speed = AxisMultipliers(t.Pos, g.cal, edges, g.cfg.Zones)
}
