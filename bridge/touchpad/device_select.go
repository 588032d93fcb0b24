package main

// Input device selection helpers.
//
// Touchpads appear as /dev/input/eventX next to keyboards, mice and
// touchscreens. We support:
// - printing /proc/bus/input/devices (for debugging)
// - "probing" each event node for short multitouch activity to auto-select the touchpad
// - reading the axis calibration the edge detector needs

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"touchpad-edgemotion/edgemotion"
)

type inputDeviceInfo struct {
	name     string
	handlers []string
}

func (d inputDeviceInfo) eventNode() string {
	for _, h := range d.handlers {
		if strings.HasPrefix(h, "event") {
			return "/dev/input/" + h
		}
	}
	return ""
}

func listProcInputDevices() []inputDeviceInfo {
	b, err := os.ReadFile("/proc/bus/input/devices")
	if err != nil {
		return nil
	}
	return parseProcInputDevices(string(b))
}

func parseProcInputDevices(s string) []inputDeviceInfo {
	var out []inputDeviceInfo
	for _, blk := range strings.Split(s, "\n\n") {
		info := inputDeviceInfo{}
		for _, line := range strings.Split(blk, "\n") {
			if v, ok := strings.CutPrefix(line, "N: Name="); ok {
				info.name = strings.Trim(v, " \"")
			}
			if v, ok := strings.CutPrefix(line, "H: Handlers="); ok {
				info.handlers = strings.Fields(v)
			}
		}
		if info.name != "" || len(info.handlers) > 0 {
			out = append(out, info)
		}
	}
	return out
}

// nameScore ranks device names; touchpads first, touchscreens never.
func nameScore(name string) int {
	ln := strings.ToLower(name)
	switch {
	case strings.Contains(ln, "touchscreen"):
		return -100
	case strings.Contains(ln, "touchpad"), strings.Contains(ln, "trackpad"):
		return 20
	case strings.Contains(ln, "synaptics"), strings.Contains(ln, "elan"), strings.Contains(ln, "alps"):
		return 10
	}
	return 0
}

type devProbe struct {
	path      string
	name      string
	mtX       int
	mtY       int
	tracking  int
	btnFinger int
	btnLeft   int
	any       int
}

func (p devProbe) score() int {
	// Any activity beats none; MT axes and finger tools mark a touchpad.
	return p.any + 5*p.mtX + 5*p.mtY + 8*p.tracking + 8*p.btnFinger + 2*p.btnLeft + nameScore(p.name)
}

func (p *devProbe) count(ev inputEvent) {
	p.any++
	switch ev.Type {
	case EV_ABS:
		switch ev.Code {
		case ABS_MT_POSITION_X:
			p.mtX++
		case ABS_MT_POSITION_Y:
			p.mtY++
		case ABS_MT_TRACKING_ID:
			p.tracking++
		}
	case EV_KEY:
		switch ev.Code {
		case BTN_TOOL_FINGER, BTN_TOOL_DOUBLETAP:
			p.btnFinger++
		case BTN_LEFT:
			p.btnLeft++
		}
	}
}

func probeDevice(path string, dur time.Duration) (devProbe, error) {
	out := devProbe{path: path}
	f, err := os.Open(path)
	if err != nil {
		return out, err
	}
	defer f.Close()
	fd := int(f.Fd())

	if err := unix.SetNonblock(fd, true); err != nil {
		return out, err
	}

	reader := bufio.NewReaderSize(f, 4096)
	parser := newInputParser()
	deadline := time.Now().Add(dur)

	for time.Now().Before(deadline) {
		pfd := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		_, _ = unix.Poll(pfd, 50)
		if pfd[0].Revents&unix.POLLIN == 0 {
			continue
		}
		buf := make([]byte, 4096)
		n, err := reader.Read(buf)
		if err != nil || n == 0 {
			continue
		}
		parser.feed(buf[:n], out.count)
	}
	return out, nil
}

// autoDetectTouchpad picks the explicit path, the single device whose name
// says touchpad, or else the event node with the best probe score.
func autoDetectTouchpad(explicit string, debug bool, probeDur time.Duration) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	names := map[string]string{}
	var named []string
	for _, d := range listProcInputDevices() {
		if p := d.eventNode(); p != "" {
			names[p] = d.name
			if nameScore(d.name) >= 20 {
				named = append(named, p)
			}
		}
	}
	if len(named) == 1 {
		if debug {
			fmt.Printf("[bridge] %s is the only touchpad by name (%q)\n", named[0], names[named[0]])
		}
		return named[0], nil
	}

	matches, _ := filepath.Glob("/dev/input/event*")
	if len(matches) == 0 {
		return "", errors.New("no /dev/input/event* devices found")
	}
	sort.Strings(matches)

	fmt.Printf("[bridge] probing %d devices for %s each; move a finger on the touchpad\n", len(matches), probeDur)
	bestScore := -1
	best := devProbe{path: matches[0]}
	for _, p := range matches {
		pr, err := probeDevice(p, probeDur)
		if err != nil {
			continue
		}
		pr.name = names[p]
		s := pr.score()
		if debug {
			fmt.Printf("[bridge] probe %s score=%d any=%d mtx=%d mty=%d track=%d finger=%d left=%d name=%q\n",
				p, s, pr.any, pr.mtX, pr.mtY, pr.tracking, pr.btnFinger, pr.btnLeft, pr.name)
		}
		if s > bestScore {
			bestScore = s
			best = pr
		}
	}
	if debug {
		fmt.Printf("[bridge] selected %s score=%d\n", best.path, best.score())
	}
	return best.path, nil
}

// deviceAxes is what EVIOCGABS told us about the touch surface.
type deviceAxes struct {
	x, y       absInfo
	slots      int
	multitouch bool
}

func readDeviceAxes(fd int) (deviceAxes, error) {
	var ax deviceAxes
	mx, errX := getAbsInfo(fd, ABS_MT_POSITION_X)
	my, errY := getAbsInfo(fd, ABS_MT_POSITION_Y)
	if errX == nil && errY == nil && mx.valid() && my.valid() {
		ax.x, ax.y, ax.multitouch = mx, my, true
		if s, err := getAbsInfo(fd, ABS_MT_SLOT); err == nil && s.Max >= 0 {
			ax.slots = int(s.Max) + 1
		}
	} else {
		x, err := getAbsInfo(fd, ABS_X)
		if err != nil {
			return ax, fmt.Errorf("read ABS_X: %w", err)
		}
		y, err := getAbsInfo(fd, ABS_Y)
		if err != nil {
			return ax, fmt.Errorf("read ABS_Y: %w", err)
		}
		ax.x, ax.y = x, y
	}
	ax.slots = max(1, min(ax.slots, maxSlots))
	return ax, nil
}

// calibration turns device axes into edge motion calibration. Accel scale
// defaults to the axis resolution: 1 mm of synthesized travel is as many
// raw units as 1 mm of finger travel.
func (ax deviceAxes) calibration(dc DeviceConfig) edgemotion.Calibration {
	cal := edgemotion.Calibration{
		X: edgemotion.AxisCalibration{Min: ax.x.Min, Max: ax.x.Max, Resolution: ax.x.Resolution},
		Y: edgemotion.AxisCalibration{Min: ax.y.Min, Max: ax.y.Max, Resolution: ax.y.Resolution},
	}
	if dc.ResolutionX > 0 {
		cal.X.Resolution = dc.ResolutionX
	}
	if dc.ResolutionY > 0 {
		cal.Y.Resolution = dc.ResolutionY
	}
	cal.AccelScaleX = float64(cal.X.Resolution)
	cal.AccelScaleY = float64(cal.Y.Resolution)
	if dc.AccelScaleX > 0 {
		cal.AccelScaleX = dc.AccelScaleX
	}
	if dc.AccelScaleY > 0 {
		cal.AccelScaleY = dc.AccelScaleY
	}
	cal.SoftEdges = edgemotion.SoftEdges{
		Left:   dc.SoftEdgeLeft,
		Right:  dc.SoftEdgeRight,
		Top:    dc.SoftEdgeTop,
		Bottom: dc.SoftEdgeBottom,
	}
	return cal
}
