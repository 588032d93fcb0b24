package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputParserSplitChunks(t *testing.T) {
	for _, sz := range []int{16, 24} {
		var stream []byte
		want := []inputEvent{
			{Type: EV_ABS, Code: ABS_MT_POSITION_X, Value: 1234},
			{Type: EV_ABS, Code: ABS_MT_TRACKING_ID, Value: -1},
			{Type: EV_SYN, Code: SYN_REPORT},
		}
		for _, ev := range want {
			stream = encodeEvent(stream, sz, ev)
		}

		p := &inputParser{sz: sz}
		var got []inputEvent
		for i := 0; i < len(stream); i += 5 {
			end := min(i+5, len(stream))
			p.feed(stream[i:end], func(ev inputEvent) { got = append(got, ev) })
		}
		require.Equal(t, want, got, "event size %d", sz)
	}
}

func TestIocEncoding(t *testing.T) {
	// values from <linux/input.h> and <linux/uinput.h> on x86_64
	assert.Equal(t, uintptr(0x80184575), evioCGAbs(ABS_MT_POSITION_X))
	assert.Equal(t, uintptr(0x40044590), evioCGrab())
	assert.Equal(t, uintptr(0x5501), uiDevCreate)
	assert.Equal(t, uintptr(0x40045564), uiSetEvBit)
	assert.Equal(t, uintptr(0x40045566), uiSetRelBit)
}
