package main

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloseStopsFrameReader(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer w.Close()

	// same descriptor access path runOnce uses for grab and calibration
	var seen int
	require.NoError(t, withFd(r, func(fd int) error {
		seen = fd
		return nil
	}))
	assert.Positive(t, seen)

	frames := make(chan touchFrame, 4)
	errC := make(chan error, 1)
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		readFrames(r, newTouchTracker(deviceAxes{slots: 1}), false, frames, errC, done)
	}()

	sz := newInputParser().sz
	var stream []byte
	for _, ev := range []inputEvent{key(BTN_TOUCH, 1), abs(ABS_X, 10), abs(ABS_Y, 20), synReport} {
		stream = encodeEvent(stream, sz, ev)
	}
	_, err = w.Write(stream)
	require.NoError(t, err)

	select {
	case <-frames:
	case <-time.After(time.Second):
		t.Fatal("no frame read from pipe")
	}

	// nothing more is written: the reader is parked in Read
	close(done)
	require.NoError(t, r.Close())

	select {
	case <-exited:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("reader still blocked after Close")
	}
	select {
	case err := <-errC:
		assert.True(t, errors.Is(err, os.ErrClosed), "got %v", err)
	default:
		t.Fatal("reader exited without reporting an error")
	}
}
