package edgemotion

import (
	"errors"
	"fmt"
)

// Config holds the tunables of the edge motion generator. Times are in
// microseconds, matching the frame clock.
type Config struct {
	BaseSpeedMMs  float64 `toml:"base_speed_mm_s"`
	ThresholdMM   float64 `toml:"threshold_mm"`
	IntervalUs    uint64  `toml:"interval_us"`
	JitterFloorMM float64 `toml:"jitter_floor_mm"`
	Zones         Zones   `toml:"zones"`

	// Tracef, if set, receives phase transition traces.
	Tracef func(format string, args ...any) `toml:"-"`
}

func DefaultConfig() Config {
	return Config{
		BaseSpeedMMs:  40,
		ThresholdMM:   7,
		IntervalUs:    8000,
		JitterFloorMM: 0.001,
		Zones:         DefaultZones(),
	}
}

func (c Config) Validate() error {
	if c.BaseSpeedMMs <= 0 {
		return fmt.Errorf("base speed must be positive, got %g mm/s", c.BaseSpeedMMs)
	}
	if c.ThresholdMM < 0 {
		return fmt.Errorf("edge threshold must not be negative, got %g mm", c.ThresholdMM)
	}
	if c.IntervalUs == 0 {
		return errors.New("tick interval must be positive")
	}
	if c.JitterFloorMM < 0 {
		return fmt.Errorf("jitter floor must not be negative, got %g mm", c.JitterFloorMM)
	}
	zs := c.Zones.sorted()
	for i, z := range zs {
		if z.Multiplier <= 0 {
			return fmt.Errorf("zone at %g mm: multiplier must be positive", z.MinMM)
		}
		if i > 0 && zs[i-1].MinMM == z.MinMM {
			return fmt.Errorf("duplicate zone boundary at %g mm", z.MinMM)
		}
	}
	return nil
}

func (c Config) tracef(format string, args ...any) {
	if c.Tracef != nil {
		c.Tracef(format, args...)
	}
}
