package edgemotion

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// 100 x 70 mm surface at 10 units/mm.
func testCalibration() Calibration {
	return Calibration{
		X:           AxisCalibration{Min: 0, Max: 1000, Resolution: 10},
		Y:           AxisCalibration{Min: 0, Max: 700, Resolution: 10},
		AccelScaleX: 1,
		AccelScaleY: 1,
	}
}

func TestDetect(t *testing.T) {
	cal := testCalibration()
	tests := []struct {
		name string
		p    Point
		want Edge
	}{
		{"center", Point{500, 350}, EdgeNone},
		{"left", Point{20, 350}, EdgeLeft},
		{"left boundary is exclusive", Point{70, 350}, EdgeNone},
		{"right", Point{950, 350}, EdgeRight},
		{"top", Point{500, 10}, EdgeTop},
		{"bottom", Point{500, 690}, EdgeBottom},
		{"top left corner", Point{20, 20}, EdgeLeft | EdgeTop},
		{"bottom right corner", Point{999, 699}, EdgeRight | EdgeBottom},
		{"past the extreme", Point{-5, 350}, EdgeLeft},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.p, cal, 7))
		})
	}
}

func TestDetectSoftEdges(t *testing.T) {
	cal := testCalibration()
	right := int32(800)
	cal.SoftEdges.Right = &right

	assert.Equal(t, EdgeRight, Detect(Point{850, 350}, cal, 7), "soft edge widens the right zone")
	assert.Equal(t, EdgeNone, Detect(Point{780, 350}, cal, 7))
	assert.Equal(t, EdgeLeft, Detect(Point{20, 350}, cal, 7), "other edges keep the physical threshold")

	top := int32(-1)
	cal.SoftEdges.Top = &top
	assert.Equal(t, EdgeNone, Detect(Point{500, 10}, cal, 7), "soft edge narrows the top zone")
}

func TestDetectDegenerateCalibration(t *testing.T) {
	for _, cal := range []Calibration{
		{},
		{X: AxisCalibration{Min: 0, Max: 1000}, Y: AxisCalibration{Min: 0, Max: 700}},
		{X: AxisCalibration{Min: 5, Max: 5, Resolution: 10}, Y: AxisCalibration{Min: 5, Max: 5, Resolution: 10}},
	} {
		assert.Equal(t, EdgeNone, Detect(Point{5, 5}, cal, 7))
	}
}

func TestDirectionOf(t *testing.T) {
	for e := Edge(0); e <= EdgeLeft|EdgeRight|EdgeTop|EdgeBottom; e++ {
		d := DirectionOf(e)
		l := d.Len()
		if l == 0 {
			continue
		}
		assert.InDelta(t, 1.0, l, 1e-12, "edges %s", e)
	}
	assert.Equal(t, Vec{}, DirectionOf(EdgeNone))
	assert.Equal(t, Vec{}, DirectionOf(EdgeLeft|EdgeRight))
	assert.Equal(t, Vec{X: -1}, DirectionOf(EdgeLeft))
	assert.Equal(t, Vec{Y: 1}, DirectionOf(EdgeBottom))

	corner := DirectionOf(EdgeLeft | EdgeTop)
	assert.InDelta(t, -math.Sqrt2/2, corner.X, 1e-9)
	assert.InDelta(t, -math.Sqrt2/2, corner.Y, 1e-9)
}

func TestEdgeString(t *testing.T) {
	assert.Equal(t, "none", EdgeNone.String())
	assert.Equal(t, "left|top", (EdgeTop | EdgeLeft).String())
	assert.Equal(t, "right|bottom", (EdgeRight | EdgeBottom).String())
}
