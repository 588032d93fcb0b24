package main

// Drag-active signal for the edge motion generator.
//
// Real gesture recognition belongs to the compositor's input stack; this is
// the small host-side stand-in: a held left button with a finger down, or a
// one-finger tap followed by a touch within dragTimeout (tap-and-drag).

import (
	"math"

	"touchpad-edgemotion/edgemotion"
)

type dragSource int

const (
	dragSourceBoth dragSource = iota
	dragSourceTap
	dragSourceButton
)

func parseDragSource(s string) (dragSource, bool) {
	switch s {
	case "both", "":
		return dragSourceBoth, true
	case "tap":
		return dragSourceTap, true
	case "button":
		return dragSourceButton, true
	}
	return dragSourceBoth, false
}

const (
	tapMaxTime     = 180_000 // us
	tapMaxTravelMM = 2.0
	dragTimeout    = 300_000 // us
)

type dragFunc func(d *dragDetector, now uint64, f touchFrame) dragFunc

type dragDetector struct {
	source dragSource
	cal    edgemotion.Calibration
	state  dragFunc

	t0     uint64 // touch down, or tap release in dragTapped
	x0, y0 float64
	active bool
}

func newDragDetector(source dragSource, cal edgemotion.Calibration) *dragDetector {
	return &dragDetector{source: source, cal: cal, state: dragIdle}
}

// update feeds one frame and reports whether a drag is active.
func (d *dragDetector) update(now uint64, f touchFrame) bool {
	d.active = false
	d.state = d.state(d, now, f)
	tap := d.active && d.source != dragSourceButton
	button := f.btnLeft && f.fingers == 1 && d.source != dragSourceTap
	return tap || button
}

func (d *dragDetector) travelMM(f touchFrame) float64 {
	t, ok := firstContact(f)
	if !ok {
		return 0
	}
	dx := edgemotion.UnitsToMM(t.Pos.X-d.x0, d.cal.X)
	dy := edgemotion.UnitsToMM(t.Pos.Y-d.y0, d.cal.Y)
	return math.Hypot(dx, dy)
}

func firstContact(f touchFrame) (edgemotion.Touch, bool) {
	for _, t := range f.touches {
		if t.State == edgemotion.ContactActive {
			return t, true
		}
	}
	return edgemotion.Touch{}, false
}

// dragIdle is the start state when no finger is down
func dragIdle(d *dragDetector, now uint64, f touchFrame) dragFunc {
	if f.fingers == 0 {
		return dragIdle
	}
	if f.fingers > 1 || f.btnLeft {
		return dragClear
	}
	t, _ := firstContact(f)
	d.t0, d.x0, d.y0 = now, t.Pos.X, t.Pos.Y
	return dragTouch
}

// dragTouch decides whether the first touch is a tap
func dragTouch(d *dragDetector, now uint64, f touchFrame) dragFunc {
	if f.fingers == 0 {
		if now-d.t0 <= tapMaxTime {
			d.t0 = now
			return dragTapped
		}
		return dragIdle
	}
	if f.fingers > 1 || f.btnLeft || d.travelMM(f) >= tapMaxTravelMM || now-d.t0 > tapMaxTime {
		return dragClear
	}
	return dragTouch
}

// dragTapped waits for the finger to come back after a tap
func dragTapped(d *dragDetector, now uint64, f touchFrame) dragFunc {
	if now-d.t0 > dragTimeout {
		return dragIdle(d, now, f)
	}
	if f.fingers == 0 {
		return dragTapped
	}
	if f.fingers > 1 {
		return dragClear
	}
	d.active = true
	return dragDragging
}

// dragDragging holds while the single finger stays down
func dragDragging(d *dragDetector, now uint64, f touchFrame) dragFunc {
	if f.fingers != 1 {
		if f.fingers == 0 {
			return dragIdle
		}
		return dragClear
	}
	d.active = true
	return dragDragging
}

// dragClear waits until no finger or button is active
func dragClear(d *dragDetector, now uint64, f touchFrame) dragFunc {
	if f.fingers != 0 || f.btnLeft {
		return dragClear
	}
	return dragIdle
}
