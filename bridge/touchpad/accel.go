package main

// Flat pointer acceleration: raw touchpad units are normalized to a 1000 DPI
// reference using the axis resolution, then scaled by (1 + speed). No
// velocity-dependent curve; synthesized edge motion has constant speed per
// zone anyway.

import "touchpad-edgemotion/edgemotion"

const normalizedDPI = 1000.0

type flatAccel struct {
	factor     float64
	unitsPerMM edgemotion.Vec
}

func newFlatAccel(speed float64, cal edgemotion.Calibration) *flatAccel {
	speed = clamp(speed, -1, 1)
	return &flatAccel{
		factor: 1 + speed,
		unitsPerMM: edgemotion.Vec{
			X: float64(cal.X.Resolution),
			Y: float64(cal.Y.Resolution),
		},
	}
}

func (a *flatAccel) Filter(raw edgemotion.Vec, _ uint64) edgemotion.Vec {
	return edgemotion.Vec{
		X: normalize(raw.X, a.unitsPerMM.X) * a.factor,
		Y: normalize(raw.Y, a.unitsPerMM.Y) * a.factor,
	}
}

func normalize(v, unitsPerMM float64) float64 {
	if unitsPerMM <= 0 {
		return v
	}
	return v / unitsPerMM * (normalizedDPI / 25.4)
}
