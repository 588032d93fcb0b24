package edgemotion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZoneMultiplier(t *testing.T) {
	tests := []struct {
		mm   float64
		want float64
	}{
		{6.0, 0.5},
		{4.0, 1.0},
		{1.0, 2.0},
		{5.0, 0.5},
		{4.999, 1.0},
		{3.0, 1.0},
		{2.999, 2.0},
		{0, 2.0},
		{-1, 2.0},
		{7.0, 0.5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ZoneMultiplier(tt.mm), "distance %g mm", tt.mm)
	}
}

func TestZonesCustomTable(t *testing.T) {
	two := Zones{{MinMM: 4, Multiplier: 1}, {MinMM: 0, Multiplier: 3}}
	assert.Equal(t, 3.0, two.Multiplier(1))
	assert.Equal(t, 1.0, two.Multiplier(4))

	shifted := Zones{{MinMM: 2, Multiplier: 4}, {MinMM: 6, Multiplier: 1}}
	assert.Equal(t, 4.0, shifted.Multiplier(0.5), "below the innermost zone uses it")

	assert.Equal(t, 1.0, Zones(nil).Multiplier(3))
}

func TestAxisMultipliers(t *testing.T) {
	cal := testCalibration()
	zones := DefaultZones()

	m := AxisMultipliers(Point{20, 350}, cal, EdgeLeft, zones)
	assert.Equal(t, Vec{X: 2}, m)

	m = AxisMultipliers(Point{960, 640}, cal, EdgeRight|EdgeBottom, zones)
	assert.Equal(t, Vec{X: 1, Y: 0.5}, m)

	m = AxisMultipliers(Point{40, 10}, cal, EdgeLeft|EdgeTop, zones)
	assert.Equal(t, Vec{X: 1, Y: 2}, m)

	m = AxisMultipliers(Point{500, 350}, cal, EdgeLeft|EdgeRight, zones)
	assert.Equal(t, Vec{}, m, "opposite edges cancel")
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	bad := []func(*Config){
		func(c *Config) { c.BaseSpeedMMs = 0 },
		func(c *Config) { c.ThresholdMM = -1 },
		func(c *Config) { c.IntervalUs = 0 },
		func(c *Config) { c.JitterFloorMM = -0.1 },
		func(c *Config) { c.Zones = Zones{{MinMM: 0, Multiplier: 0}} },
		func(c *Config) { c.Zones = Zones{{MinMM: 3, Multiplier: 1}, {MinMM: 3, Multiplier: 2}} },
	}
	for i, mutate := range bad {
		c := DefaultConfig()
		mutate(&c)
		assert.Error(t, c.Validate(), "case %d", i)
	}
}
