package main

// Touch tracking: folds the evdev event stream into one touchFrame per
// SYN_REPORT. Multitouch devices use protocol B slots; devices without MT
// axes are tracked as a single slot from ABS_X/ABS_Y + BTN_TOUCH.

import "touchpad-edgemotion/edgemotion"

const maxSlots = 16

type mtSlot struct {
	id       int32 // tracking id, -1 when the slot is empty
	x, y     int32
	distance int32
}

type touchFrame struct {
	touches []edgemotion.Touch
	fingers int
	btnLeft bool
}

type touchTracker struct {
	multitouch bool
	slot       int
	slots      []mtSlot

	// single touch fallback
	stX, stY int32
	btnTouch bool

	btnLeft bool
	dropped bool
}

func newTouchTracker(ax deviceAxes) *touchTracker {
	tr := &touchTracker{
		multitouch: ax.multitouch,
		slots:      make([]mtSlot, ax.slots),
	}
	for i := range tr.slots {
		tr.slots[i].id = -1
	}
	return tr
}

// handle applies one event and returns a frame at each SYN_REPORT. Events
// between SYN_DROPPED and the next SYN_REPORT are incomplete and discarded
// together with the report that ends them.
func (tr *touchTracker) handle(ev inputEvent) (touchFrame, bool) {
	if tr.dropped {
		if ev.Type == EV_SYN && ev.Code == SYN_REPORT {
			tr.dropped = false
		}
		return touchFrame{}, false
	}

	switch ev.Type {
	case EV_ABS:
		tr.handleAbs(ev.Code, ev.Value)
	case EV_KEY:
		switch ev.Code {
		case BTN_LEFT:
			tr.btnLeft = ev.Value != 0
		case BTN_TOUCH:
			tr.btnTouch = ev.Value != 0
		}
	case EV_SYN:
		switch ev.Code {
		case SYN_REPORT:
			return tr.frame(), true
		case SYN_DROPPED:
			tr.dropped = true
		}
	}
	return touchFrame{}, false
}

func (tr *touchTracker) handleAbs(code uint16, value int32) {
	if !tr.multitouch {
		switch code {
		case ABS_X:
			tr.stX = value
		case ABS_Y:
			tr.stY = value
		}
		return
	}
	if code == ABS_MT_SLOT {
		tr.slot = int(value)
		return
	}
	if tr.slot < 0 || tr.slot >= len(tr.slots) {
		return
	}
	s := &tr.slots[tr.slot]
	switch code {
	case ABS_MT_TRACKING_ID:
		s.id = value
		if value < 0 {
			s.distance = 0
		}
	case ABS_MT_POSITION_X:
		s.x = value
	case ABS_MT_POSITION_Y:
		s.y = value
	case ABS_MT_DISTANCE:
		s.distance = value
	}
}

func (tr *touchTracker) frame() touchFrame {
	f := touchFrame{
		touches: make([]edgemotion.Touch, len(tr.slots)),
		btnLeft: tr.btnLeft,
	}
	if !tr.multitouch {
		if tr.btnTouch {
			f.touches[0] = edgemotion.Touch{
				Pos:   edgemotion.Point{X: float64(tr.stX), Y: float64(tr.stY)},
				State: edgemotion.ContactActive,
			}
			f.fingers = 1
		}
		return f
	}
	for i, s := range tr.slots {
		if s.id < 0 {
			continue
		}
		state := edgemotion.ContactActive
		if s.distance > 0 {
			state = edgemotion.ContactHovering
		} else {
			f.fingers++
		}
		f.touches[i] = edgemotion.Touch{
			Pos:   edgemotion.Point{X: float64(s.x), Y: float64(s.y)},
			State: state,
		}
	}
	return f
}
