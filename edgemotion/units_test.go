package edgemotion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnitConversion(t *testing.T) {
	a := AxisCalibration{Min: -500, Max: 3500, Resolution: 40}

	assert.InDelta(t, 0.0, ToMM(-500, a), 1e-9)
	assert.InDelta(t, 100.0, ToMM(3500, a), 1e-9)
	assert.InDelta(t, 12.5, ToMM(0, a), 1e-9)

	for _, mm := range []float64{0, 0.25, 7, 42.5, 100} {
		assert.InDelta(t, mm, ToMM(ToDevice(mm, a), a), 1e-9)
	}
	assert.InDelta(t, 280.0, MMToUnits(7, a), 1e-9)
	assert.InDelta(t, 7.0, UnitsToMM(280, a), 1e-9)
}

func TestUnitConversionZeroResolution(t *testing.T) {
	a := AxisCalibration{Min: 0, Max: 1000}

	assert.Equal(t, 0.0, ToMM(500, a))
	assert.Equal(t, 0.0, MMToUnits(7, a))
	assert.Equal(t, 0.0, ToDevice(7, a))
	assert.Equal(t, 0.0, AxisCalibration{Min: 10, Max: 10}.Range())
}
