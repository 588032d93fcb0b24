package main

// Virtual relative pointer on /dev/uinput. Edge motion arrives as fractional
// normalized deltas; the fractions are accumulated and only whole units are
// written, so slow motion still moves the cursor eventually.

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"

	"touchpad-edgemotion/edgemotion"
)

const (
	uinputMaxNameSize = 80
	absCnt            = 0x40
	busVirtual        = 0x06
)

// struct uinput_user_dev (legacy setup, supported by every uinput version)
type uinputUserDev struct {
	Name         [uinputMaxNameSize]byte
	BusType      uint16
	Vendor       uint16
	Product      uint16
	Version      uint16
	FFEffectsMax uint32
	AbsMax       [absCnt]int32
	AbsMin       [absCnt]int32
	AbsFuzz      [absCnt]int32
	AbsFlat      [absCnt]int32
}

func uiIOW(nr uint32) uintptr {
	return ioc(iocWrite, uint32('U'), nr, uint32(unsafe.Sizeof(int32(0))))
}

var (
	uiDevCreate  = ioc(iocNone, uint32('U'), 1, 0)
	uiDevDestroy = ioc(iocNone, uint32('U'), 2, 0)
	uiSetEvBit   = uiIOW(100)
	uiSetKeyBit  = uiIOW(101)
	uiSetRelBit  = uiIOW(102)
)

type uinputSink struct {
	f      *os.File
	evSize int
	debug  bool

	accumX, accumY float64
	buf            []byte
}

func openUinputSink(name string, debug bool) (*uinputSink, error) {
	f, err := os.OpenFile("/dev/uinput", os.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("open /dev/uinput: %w", err)
	}
	setup := []struct {
		req uintptr
		arg uintptr
	}{
		{uiSetEvBit, EV_SYN},
		{uiSetEvBit, EV_KEY},
		{uiSetEvBit, EV_REL},
		// libinput only classifies the device as a pointer with a button
		{uiSetKeyBit, BTN_LEFT},
		{uiSetRelBit, REL_X},
		{uiSetRelBit, REL_Y},
	}
	err = withFd(f, func(fd int) error {
		for _, s := range setup {
			if err := ioctl(fd, s.req, s.arg); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("uinput setup: %w", err)
	}

	var dev uinputUserDev
	copy(dev.Name[:uinputMaxNameSize-1], name)
	dev.BusType = busVirtual
	dev.Vendor = 0x1
	dev.Product = 0x1
	dev.Version = 1
	var b bytes.Buffer
	if err := binary.Write(&b, binary.LittleEndian, &dev); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.Write(b.Bytes()); err != nil {
		f.Close()
		return nil, fmt.Errorf("uinput write device: %w", err)
	}
	if err := withFd(f, func(fd int) error { return ioctl(fd, uiDevCreate, 0) }); err != nil {
		f.Close()
		return nil, fmt.Errorf("uinput create: %w", err)
	}

	return &uinputSink{
		f:      f,
		evSize: int(unsafe.Sizeof(unix.Timeval{})) + 8,
		debug:  debug,
	}, nil
}

// extractIntegerDelta accumulates fractional deltas and returns the whole part.
func (s *uinputSink) extractIntegerDelta(dx, dy float64) (int32, int32) {
	s.accumX += dx
	s.accumY += dy
	ix, iy := int32(s.accumX), int32(s.accumY)
	s.accumX -= float64(ix)
	s.accumY -= float64(iy)
	return ix, iy
}

func (s *uinputSink) PointerMotion(_ uint64, delta, _ edgemotion.Vec) {
	ix, iy := s.extractIntegerDelta(delta.X, delta.Y)
	if ix == 0 && iy == 0 {
		return
	}
	s.buf = s.buf[:0]
	if ix != 0 {
		s.buf = encodeEvent(s.buf, s.evSize, inputEvent{Type: EV_REL, Code: REL_X, Value: ix})
	}
	if iy != 0 {
		s.buf = encodeEvent(s.buf, s.evSize, inputEvent{Type: EV_REL, Code: REL_Y, Value: iy})
	}
	s.buf = encodeEvent(s.buf, s.evSize, inputEvent{Type: EV_SYN, Code: SYN_REPORT})
	if _, err := s.f.Write(s.buf); err != nil && s.debug {
		fmt.Printf("[uinput] write: %v\n", err)
	}
}

// EdgeState drops the remainder so a new edge run starts clean.
func (s *uinputSink) EdgeState(_ uint64, st edgemotion.State) {
	if !st.Phase.EdgeActive() {
		s.accumX, s.accumY = 0, 0
	}
}

func (s *uinputSink) Close() error {
	_ = withFd(s.f, func(fd int) error { return ioctl(fd, uiDevDestroy, 0) })
	return s.f.Close()
}
