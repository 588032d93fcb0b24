package main

// Bridge run loop.
//
// Reads the touchpad, folds events into frames, derives the drag-active
// signal and feeds the edge motion generator; synthesized motion goes to the
// configured sink. Device loss or a broken sink ends runOnce and the outer
// loop starts over after a backoff.

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"time"

	"touchpad-edgemotion/edgemotion"
)

type BridgeConfig struct {
	InputDevice         string
	Grab                bool
	ProbeSeconds        float64
	MaxReconnectSeconds int
	DragSource          string
	AccelSpeed          float64

	Sink               string
	WsURL              string
	UinputName         string
	PingSeconds        float64
	PongTimeoutSeconds float64

	Edge   edgemotion.Config
	Device DeviceConfig

	Debug       bool
	DumpEvents  bool
	ListDevices bool
}

// motionSink is where synthesized motion goes, plus phase change notices.
type motionSink interface {
	edgemotion.Sink
	EdgeState(time uint64, st edgemotion.State)
	Close() error
}

func RunBridgeForever(cfg BridgeConfig) error {
	if cfg.ListDevices {
		for _, d := range listProcInputDevices() {
			fmt.Printf("name=%q handlers=%v touchpad_score=%d\n", d.name, d.handlers, nameScore(d.name))
		}
		return nil
	}

	source, ok := parseDragSource(cfg.DragSource)
	if !ok {
		return fmt.Errorf("unknown drag source %q (want tap|button|both)", cfg.DragSource)
	}
	if err := cfg.Edge.Validate(); err != nil {
		return err
	}
	if cfg.Debug {
		cfg.Edge.Tracef = func(format string, args ...any) {
			fmt.Printf("[edge] "+format+"\n", args...)
		}
	}

	probeDur := time.Duration(float64(time.Second) * math.Max(0.1, cfg.ProbeSeconds))
	path, err := autoDetectTouchpad(cfg.InputDevice, cfg.Debug, probeDur)
	if err != nil {
		return err
	}
	fmt.Printf("[bridge] using input device: %s\n", path)

	reconnectDelay := 500 * time.Millisecond
	maxReconnectDelay := time.Duration(max(1, cfg.MaxReconnectSeconds)) * time.Second

	for {
		sink, sinkErr, err := openSink(context.Background(), cfg)
		if err != nil {
			if cfg.Sink != "ws" {
				return err
			}
			j := time.Duration(rand.Int63n(int64(250 * time.Millisecond)))
			fmt.Printf("[bridge] sink error: %v; retrying in %s\n", err, reconnectDelay+j)
			time.Sleep(reconnectDelay + j)
			reconnectDelay = time.Duration(math.Min(float64(maxReconnectDelay), float64(reconnectDelay)*1.7))
			continue
		}
		fmt.Printf("[bridge] sink ready: %s\n", cfg.Sink)
		reconnectDelay = 500 * time.Millisecond

		err = runOnce(path, cfg, source, sink, sinkErr)
		_ = sink.Close()
		fmt.Printf("[bridge] stopped; restarting in %s (err=%v)\n", reconnectDelay, err)
		time.Sleep(reconnectDelay)
	}
}

func openSink(ctx context.Context, cfg BridgeConfig) (motionSink, <-chan error, error) {
	switch cfg.Sink {
	case "ws":
		pingEvery := time.Duration(float64(time.Second) * math.Max(1, cfg.PingSeconds))
		pongWait := time.Duration(float64(time.Second) * math.Max(2, cfg.PongTimeoutSeconds))
		ws, err := DialWS(ctx, cfg.WsURL, pingEvery, pongWait)
		if err != nil {
			return nil, nil, fmt.Errorf("dial %s: %w", cfg.WsURL, err)
		}
		return &wsSink{ws: ws, conn: ws, debug: cfg.Debug}, ws.Err(), nil
	case "uinput":
		s, err := openUinputSink(cfg.UinputName, cfg.Debug)
		if err != nil {
			return nil, nil, err
		}
		return s, nil, nil
	case "log":
		return logSink{}, nil, nil
	}
	return nil, nil, fmt.Errorf("unknown sink %q (want ws|uinput|log)", cfg.Sink)
}

func runOnce(path string, cfg BridgeConfig, source dragSource, sink motionSink, sinkErr <-chan error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var ax deviceAxes
	err = withFd(f, func(fd int) error {
		if cfg.Grab {
			if err := tryGrab(fd); err != nil {
				fmt.Printf("[bridge] grab %s: %v\n", path, err)
			}
		}
		var err error
		ax, err = readDeviceAxes(fd)
		return err
	})
	if err != nil {
		return fmt.Errorf("calibrate %s: %w", path, err)
	}
	cal := ax.calibration(cfg.Device)
	fmt.Printf("[bridge] axes x=[%d,%d]@%d/mm y=[%d,%d]@%d/mm slots=%d mt=%v\n",
		cal.X.Min, cal.X.Max, cal.X.Resolution, cal.Y.Min, cal.Y.Max, cal.Y.Resolution, ax.slots, ax.multitouch)
	if cal.X.Resolution <= 0 || cal.Y.Resolution <= 0 {
		fmt.Printf("[bridge] warning: device reports no resolution; edge motion stays off (set device.resolution_x/y)\n")
	}

	clock := newMonoClock()
	timer := newLoopTimer(clock)
	gen, err := edgemotion.NewGenerator(cfg.Edge, cal, timer, newFlatAccel(cfg.AccelSpeed, cal), sink)
	if err != nil {
		return err
	}
	defer gen.Close()

	tracker := newTouchTracker(ax)
	drag := newDragDetector(source, cal)
	table := make(edgemotion.TouchSlice, len(tracker.slots))

	done := make(chan struct{})
	frames := make(chan touchFrame, 64)
	readErr := make(chan error, 1)
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		readFrames(f, tracker, cfg.DumpEvents, frames, readErr, done)
	}()
	// the grab must be gone before the next runOnce opens the device
	defer func() {
		close(done)
		f.Close()
		<-readerDone
	}()

	debugTick := time.Now()
	var nframes int

	for {
		select {
		case fr := <-frames:
			now := clock.Now()
			copy(table, fr.touches)
			prev := gen.Phase()
			gen.Frame(now, drag.update(now, fr), table)
			if st := gen.Snapshot(); st.Phase != prev {
				sink.EdgeState(now, st)
			}
			nframes++

		case <-timer.C():
			timer.fire()

		case err := <-readErr:
			return err

		case err := <-sinkErr:
			return err
		}

		if cfg.Debug && time.Since(debugTick) > 2*time.Second {
			debugTick = time.Now()
			st := gen.Snapshot()
			fmt.Printf("[bridge] stats frames=%d phase=%s edges=%s ticks=%d\n", nframes, st.Phase, st.Edges, st.TickCount)
		}
	}
}

// readFrames runs on its own goroutine; it only parses and never touches the
// generator.
func readFrames(r io.Reader, tracker *touchTracker, dump bool, frames chan<- touchFrame, errC chan<- error, done <-chan struct{}) {
	reader := bufio.NewReaderSize(r, 4096)
	parser := newInputParser()
	chunk := make([]byte, 4096)
	for {
		n, err := reader.Read(chunk)
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = fmt.Errorf("input device closed: %w", err)
			}
			errC <- err
			return
		}
		var stop bool
		parser.feed(chunk[:n], func(ev inputEvent) {
			if stop {
				return
			}
			if dump {
				fmt.Printf("[ev] type=%d code=%d value=%d\n", ev.Type, ev.Code, ev.Value)
			}
			fr, ok := tracker.handle(ev)
			if !ok {
				return
			}
			select {
			case frames <- fr:
			case <-done:
				stop = true
			}
		})
		if stop {
			return
		}
	}
}
