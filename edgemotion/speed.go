package edgemotion

import (
	"math"
	"sort"
)

// Zone maps distances of at least MinMM from the edge to Multiplier.
type Zone struct {
	MinMM      float64 `toml:"min_mm"`
	Multiplier float64 `toml:"multiplier"`
}

// Zones is a speed zone table. Lookups pick the zone with the largest MinMM
// that does not exceed the distance.
type Zones []Zone

// DefaultZones is the 3-tier table: gentle near the threshold, faster the
// further the finger is pushed past the nominal edge.
func DefaultZones() Zones {
	return Zones{
		{MinMM: 0, Multiplier: 2.0},
		{MinMM: 3, Multiplier: 1.0},
		{MinMM: 5, Multiplier: 0.5},
	}
}

// ZoneMultiplier looks distanceMM up in the default table.
func ZoneMultiplier(distanceMM float64) float64 {
	return DefaultZones().Multiplier(distanceMM)
}

// Multiplier returns the multiplier for distanceMM. Negative distances (past
// the axis extreme) use the nearest zone.
func (z Zones) Multiplier(distanceMM float64) float64 {
	if len(z) == 0 {
		return 1
	}
	best := -1
	for i, zone := range z {
		if distanceMM >= zone.MinMM && (best < 0 || zone.MinMM > z[best].MinMM) {
			best = i
		}
	}
	if best < 0 {
		// closer than the innermost zone
		lo := 0
		for i := range z {
			if z[i].MinMM < z[lo].MinMM {
				lo = i
			}
		}
		return z[lo].Multiplier
	}
	return z[best].Multiplier
}

func (z Zones) sorted() Zones {
	out := append(Zones(nil), z...)
	sort.Slice(out, func(i, j int) bool { return out[i].MinMM < out[j].MinMM })
	return out
}

// AxisMultipliers evaluates the zone table independently per axis, using the
// distance from p to whichever edge of that axis is active. Axes without an
// active edge get 0.
func AxisMultipliers(p Point, cal Calibration, edges Edge, zones Zones) Vec {
	var m Vec
	switch {
	case edges&EdgeLeft != 0 && edges&EdgeRight == 0:
		m.X = zones.Multiplier(distanceMM(p.X-float64(cal.X.Min), cal.X))
	case edges&EdgeRight != 0 && edges&EdgeLeft == 0:
		m.X = zones.Multiplier(distanceMM(float64(cal.X.Max)-p.X, cal.X))
	}
	switch {
	case edges&EdgeTop != 0 && edges&EdgeBottom == 0:
		m.Y = zones.Multiplier(distanceMM(p.Y-float64(cal.Y.Min), cal.Y))
	case edges&EdgeBottom != 0 && edges&EdgeTop == 0:
		m.Y = zones.Multiplier(distanceMM(float64(cal.Y.Max)-p.Y, cal.Y))
	}
	return m
}

func distanceMM(units float64, a AxisCalibration) float64 {
	return math.Max(0, UnitsToMM(units, a))
}
