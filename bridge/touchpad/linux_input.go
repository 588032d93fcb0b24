package main

// Linux input plumbing:
// - event codes for multitouch touchpads (protocol B) and the buttons we track
// - ioctl helpers for axis calibration (EVIOCGABS) and EVIOCGRAB
// - parsing the input_event stream (16B vs 24B timeval size)

import (
	"encoding/binary"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	EV_SYN = 0x00
	EV_KEY = 0x01
	EV_REL = 0x02
	EV_ABS = 0x03
)

const (
	SYN_REPORT  = 0x00
	SYN_DROPPED = 0x03
)

const (
	BTN_LEFT           = 0x110
	BTN_TOUCH          = 0x14A
	BTN_TOOL_FINGER    = 0x145
	BTN_TOOL_DOUBLETAP = 0x14D
)

const (
	REL_X = 0x00
	REL_Y = 0x01
)

const (
	ABS_X              = 0x00
	ABS_Y              = 0x01
	ABS_MT_SLOT        = 0x2f
	ABS_MT_POSITION_X  = 0x35
	ABS_MT_POSITION_Y  = 0x36
	ABS_MT_TRACKING_ID = 0x39
	ABS_MT_DISTANCE    = 0x3b
)

type absInfo struct {
	Value      int32
	Min        int32
	Max        int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

func (a absInfo) valid() bool { return a.Max > a.Min }

// ioctl request encoding (Linux _IOC macro)
const (
	iocNRBits   = 8
	iocTypeBits = 8
	iocSizeBits = 14
	iocDirBits  = 2

	iocNRShift   = 0
	iocTypeShift = iocNRShift + iocNRBits
	iocSizeShift = iocTypeShift + iocTypeBits
	iocDirShift  = iocSizeShift + iocSizeBits

	iocNone  = 0
	iocWrite = 1
	iocRead  = 2
)

func ioc(dir uint32, typ uint32, nr uint32, size uint32) uintptr {
	return uintptr((dir << iocDirShift) | (typ << iocTypeShift) | (nr << iocNRShift) | (size << iocSizeShift))
}

func evioCGAbs(absCode int) uintptr {
	// EVIOCGABS(abs) = _IOR('E', 0x40 + abs, struct input_absinfo)
	return ioc(iocRead, uint32('E'), uint32(0x40+absCode), uint32(unsafe.Sizeof(absInfo{})))
}

func evioCGrab() uintptr {
	// EVIOCGRAB = _IOW('E', 0x90, int)
	return ioc(iocWrite, uint32('E'), uint32(0x90), uint32(unsafe.Sizeof(int32(0))))
}

func ioctl(fd int, req uintptr, arg uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, arg)
	if errno != 0 {
		return errno
	}
	return nil
}

// withFd runs fn on f's descriptor through its RawConn. Unlike f.Fd() this
// leaves the file in the runtime poller, so Close still wakes a pending Read.
func withFd(f *os.File, fn func(fd int) error) error {
	rc, err := f.SyscallConn()
	if err != nil {
		return err
	}
	var fnErr error
	if err := rc.Control(func(fd uintptr) { fnErr = fn(int(fd)) }); err != nil {
		return err
	}
	return fnErr
}

func getAbsInfo(fd int, absCode int) (absInfo, error) {
	var info absInfo
	if err := ioctl(fd, evioCGAbs(absCode), uintptr(unsafe.Pointer(&info))); err != nil {
		return absInfo{}, err
	}
	return info, nil
}

func tryGrab(fd int) error {
	var one int32 = 1
	return ioctl(fd, evioCGrab(), uintptr(unsafe.Pointer(&one)))
}

// inputEvent is the decoded part of struct input_event; the kernel timestamp
// is dropped, frames are stamped with the dispatch clock instead.
type inputEvent struct {
	Type  uint16
	Code  uint16
	Value int32
}

// inputParser parses Linux input_event structs from a stream.
// Kernel uses different struct size depending on timeval size (32-bit vs 64-bit).
type inputParser struct {
	buf []byte
	sz  int // 0 unknown, else 16 or 24
}

func newInputParser() *inputParser {
	// The timeval size of the running kernel ABI is known up front.
	return &inputParser{sz: int(unsafe.Sizeof(unix.Timeval{})) + 8}
}

func (p *inputParser) feed(chunk []byte, cb func(ev inputEvent)) {
	p.buf = append(p.buf, chunk...)
	if p.sz == 0 {
		if len(p.buf) >= 48 && len(p.buf)%24 == 0 {
			p.sz = 24
		} else if len(p.buf) >= 32 && len(p.buf)%16 == 0 {
			p.sz = 16
		} else if len(p.buf) >= 24 {
			p.sz = 24
		}
	}
	for p.sz != 0 && len(p.buf) >= p.sz {
		ev := p.buf[:p.sz]
		p.buf = p.buf[p.sz:]
		off := p.sz - 8
		cb(inputEvent{
			Type:  binary.LittleEndian.Uint16(ev[off : off+2]),
			Code:  binary.LittleEndian.Uint16(ev[off+2 : off+4]),
			Value: int32(binary.LittleEndian.Uint32(ev[off+4 : off+8])),
		})
	}
}

// encodeEvent is the inverse of the parser, used to write to uinput.
func encodeEvent(dst []byte, sz int, ev inputEvent) []byte {
	b := make([]byte, sz)
	off := sz - 8
	binary.LittleEndian.PutUint16(b[off:], ev.Type)
	binary.LittleEndian.PutUint16(b[off+2:], ev.Code)
	binary.LittleEndian.PutUint32(b[off+4:], uint32(ev.Value))
	return append(dst, b...)
}
