// Package transit predicts transit epochs for periodic signals and checks
// which survey sectors observe them.
package transit

import (
	"fmt"
	"math"
)

// Signal is a hypothesized periodic event: an orbital period in days and a
// reference transit epoch in mission days.
type Signal struct {
	Period float64 `json:"period"`
	Epoch  float64 `json:"epoch"`
}

// epochTol absorbs floating-point modulo error when folding times onto a
// period; one millisecond in days.
const epochTol = 1.0 / 86400.0e3

// Epochs returns the ordered sequence of transit epochs in [start, stop)
// for a signal with the given period (days) and reference epoch (mission
// days). The reference epoch may lie anywhere; the first generated epoch
// is the earliest one >= start.
func Epochs(period, epoch, start, stop float64) ([]float64, error) {
	if period <= 0 {
		return nil, fmt.Errorf("transit: period must be positive, got %g", period)
	}
	if stop < start {
		return nil, fmt.Errorf("transit: stop %g before start %g", stop, start)
	}

	// Fold the reference epoch onto [start, start+period).
	offset := math.Mod(epoch-start, period)
	if offset < 0 {
		offset += period
	}

	var epochs []float64
	for t := start + offset; t < stop; t += period {
		epochs = append(epochs, t)
	}
	return epochs, nil
}

// EpochsAtPhase is the fractional-phase form of Epochs: the first epoch is
// start + phase*period. Phase must lie in [0, 1).
func EpochsAtPhase(period, phase, start, stop float64) ([]float64, error) {
	if phase < 0 || phase >= 1 {
		return nil, fmt.Errorf("transit: phase must be in [0,1), got %g", phase)
	}
	if period <= 0 {
		return nil, fmt.Errorf("transit: period must be positive, got %g", period)
	}
	return Epochs(period, start+phase*period, start, stop)
}

// SignalAtPhase converts a (period, phase) pair to a Signal anchored at the
// given window start, so the phase and absolute forms agree.
func SignalAtPhase(period, phase, start float64) Signal {
	return Signal{Period: period, Epoch: start + phase*period}
}
