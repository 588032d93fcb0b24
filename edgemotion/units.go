package edgemotion

// Unit conversion between device-native coordinates and millimeters.
//
// Resolution is in device units per millimeter, as reported by EVIOCGABS.
// A zero or negative resolution is a caller precondition violation; we clamp
// the result to zero instead of dividing by it.

// AxisCalibration describes one absolute axis of the touch surface.
type AxisCalibration struct {
	Min        int32
	Max        int32
	Resolution int32 // units/mm
}

// Range is the axis extent in device units, never negative.
func (a AxisCalibration) Range() float64 {
	if a.Max <= a.Min {
		return 0
	}
	return float64(a.Max - a.Min)
}

// Calibration is the static per-device description consumed by the detector,
// speed model and emitter.
type Calibration struct {
	X AxisCalibration
	Y AxisCalibration

	// AccelScaleX/Y convert a physical displacement in mm to raw device units
	// on each axis before it is handed to the acceleration filter.
	AccelScaleX float64
	AccelScaleY float64

	SoftEdges SoftEdges
}

// SoftEdges are optional device-specific boundaries (e.g. a reserved scroll
// margin). A non-nil edge replaces the physical threshold for that side.
type SoftEdges struct {
	Left   *int32
	Right  *int32
	Top    *int32
	Bottom *int32
}

// ToMM maps a device coordinate to its physical offset from the axis minimum.
func ToMM(v float64, a AxisCalibration) float64 {
	return UnitsToMM(v-float64(a.Min), a)
}

// ToDevice is the inverse of ToMM.
func ToDevice(mm float64, a AxisCalibration) float64 {
	return float64(a.Min) + MMToUnits(mm, a)
}

// UnitsToMM converts a length in device units to millimeters.
func UnitsToMM(units float64, a AxisCalibration) float64 {
	if a.Resolution <= 0 {
		return 0
	}
	return units / float64(a.Resolution)
}

// MMToUnits converts a length in millimeters to device units.
func MMToUnits(mm float64, a AxisCalibration) float64 {
	if a.Resolution <= 0 {
		return 0
	}
	return mm * float64(a.Resolution)
}
