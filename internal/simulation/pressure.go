package simulation

import (
	"fmt"
	"math"

	"github.com/nvandessel/alignleap/internal/config"
)

// PressureFunc returns the pressure applied at step index i.
type PressureFunc func(i int) float64

// Constant applies offset+amplitude at every step.
func Constant(amplitude, offset float64) PressureFunc {
	return func(int) float64 { return offset + amplitude }
}

// Alternate flips the sign of amplitude on every step, starting positive.
func Alternate(amplitude, offset float64) PressureFunc {
	return func(i int) float64 {
		if i%2 == 0 {
			return offset + amplitude
		}
		return offset - amplitude
	}
}

// Sine applies offset + amplitude·sin(2π·i/period). A period below 1 is
// treated as 1.
func Sine(amplitude, offset float64, period int) PressureFunc {
	period = max(period, 1)
	return func(i int) float64 {
		return offset + amplitude*math.Sin(2*math.Pi*float64(i)/float64(period))
	}
}

// Square holds +amplitude for the first half of each period and -amplitude
// for the second half. A period below 1 is treated as 1.
func Square(amplitude, offset float64, period int) PressureFunc {
	period = max(period, 1)
	return func(i int) float64 {
		if 2*(i%period) < period {
			return offset + amplitude
		}
		return offset - amplitude
	}
}

// ScheduleFromConfig builds the pressure schedule named by cfg.Kind.
func ScheduleFromConfig(cfg config.PressureConfig) (PressureFunc, error) {
	switch cfg.Kind {
	case config.PressureConstant:
		return Constant(cfg.Amplitude, cfg.Offset), nil
	case config.PressureAlternate:
		return Alternate(cfg.Amplitude, cfg.Offset), nil
	case config.PressureSine, config.PressureSquare:
		if cfg.Period <= 0 {
			return nil, fmt.Errorf("pressure period must be positive for %s, got %d", cfg.Kind, cfg.Period)
		}
		if cfg.Kind == config.PressureSine {
			return Sine(cfg.Amplitude, cfg.Offset, cfg.Period), nil
		}
		return Square(cfg.Amplitude, cfg.Offset, cfg.Period), nil
	default:
		return nil, fmt.Errorf("unknown pressure kind %q", cfg.Kind)
	}
}
