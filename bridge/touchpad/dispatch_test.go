package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopTimerFires(t *testing.T) {
	clock := newMonoClock()
	lt := newLoopTimer(clock)
	assert.Nil(t, lt.C())

	var got []uint64
	deadline := clock.Now() + 2000
	lt.Arm(deadline, func(now uint64) { got = append(got, now) })

	select {
	case <-lt.C():
		lt.fire()
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
	require.Len(t, got, 1)
	assert.GreaterOrEqual(t, got[0], deadline)

	// firing twice for one arm is a no-op
	lt.fire()
	assert.Len(t, got, 1)
}

func TestLoopTimerRearmReplaces(t *testing.T) {
	clock := newMonoClock()
	lt := newLoopTimer(clock)

	var calls []string
	lt.Arm(clock.Now()+uint64(time.Hour.Microseconds()), func(uint64) { calls = append(calls, "old") })
	lt.Arm(clock.Now()+1000, func(uint64) { calls = append(calls, "new") })

	select {
	case <-lt.C():
		lt.fire()
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
	assert.Equal(t, []string{"new"}, calls)
}

func TestLoopTimerCancel(t *testing.T) {
	clock := newMonoClock()
	lt := newLoopTimer(clock)

	fired := false
	lt.Arm(clock.Now()+1000, func(uint64) { fired = true })
	lt.Cancel()

	select {
	case <-lt.C():
		t.Fatal("cancelled timer delivered")
	case <-time.After(20 * time.Millisecond):
	}
	lt.fire()
	assert.False(t, fired)
}
