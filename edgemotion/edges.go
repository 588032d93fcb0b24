package edgemotion

import (
	"math"
	"strings"
)

// Edge is a set of touch surface boundaries a touch is close to.
type Edge uint8

const (
	EdgeLeft Edge = 1 << iota
	EdgeRight
	EdgeTop
	EdgeBottom

	EdgeNone Edge = 0
)

func (e Edge) String() string {
	if e == EdgeNone {
		return "none"
	}
	var parts []string
	for _, n := range []struct {
		bit  Edge
		name string
	}{
		{EdgeLeft, "left"},
		{EdgeRight, "right"},
		{EdgeTop, "top"},
		{EdgeBottom, "bottom"},
	} {
		if e&n.bit != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// Point is a position in device coordinates.
type Point struct {
	X, Y float64
}

// Vec is a 2D vector. Depending on context it is a unit heading, a pair of
// per-axis multipliers or a displacement.
type Vec struct {
	X, Y float64
}

// Len returns the Euclidean length of v.
func (v Vec) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Detect returns the edges p lies within thresholdMM of. Each side is
// checked independently, so a corner touch sets two bits.
func Detect(p Point, cal Calibration, thresholdMM float64) Edge {
	tx := math.Max(0, MMToUnits(thresholdMM, cal.X))
	ty := math.Max(0, MMToUnits(thresholdMM, cal.Y))

	// A degenerate axis yields no edges rather than an edge everywhere.
	if cal.X.Range() == 0 {
		tx = 0
	}
	if cal.Y.Range() == 0 {
		ty = 0
	}

	edges := EdgeNone
	if nearLow(p.X, cal.X.Min, tx, cal.SoftEdges.Left) {
		edges |= EdgeLeft
	}
	if nearHigh(p.X, cal.X.Max, tx, cal.SoftEdges.Right) {
		edges |= EdgeRight
	}
	if nearLow(p.Y, cal.Y.Min, ty, cal.SoftEdges.Top) {
		edges |= EdgeTop
	}
	if nearHigh(p.Y, cal.Y.Max, ty, cal.SoftEdges.Bottom) {
		edges |= EdgeBottom
	}
	return edges
}

func nearLow(v float64, min int32, threshold float64, soft *int32) bool {
	if soft != nil {
		return v < float64(*soft)
	}
	if threshold <= 0 {
		return false
	}
	return v < float64(min)+threshold
}

func nearHigh(v float64, max int32, threshold float64, soft *int32) bool {
	if soft != nil {
		return v > float64(*soft)
	}
	if threshold <= 0 {
		return false
	}
	return v > float64(max)-threshold
}

// DirectionOf returns the unit heading for edges, or the zero vector when
// the edges cancel out or are empty. Opposite edges on one axis cancel.
func DirectionOf(e Edge) Vec {
	var d Vec
	if e&EdgeLeft != 0 {
		d.X--
	}
	if e&EdgeRight != 0 {
		d.X++
	}
	if e&EdgeTop != 0 {
		d.Y--
	}
	if e&EdgeBottom != 0 {
		d.Y++
	}
	l := d.Len()
	if l == 0 {
		return Vec{}
	}
	return Vec{X: d.X / l, Y: d.Y / l}
}
