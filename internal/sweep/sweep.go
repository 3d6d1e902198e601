// Package sweep evaluates grids of candidate (period, phase) signals
// against a sector table, one coverage summary row per combination.
package sweep

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/rae-holcomb/tess-scheduling/internal/pointing"
	"github.com/rae-holcomb/tess-scheduling/internal/transit"
)

// Request holds the parameters for a sweep.
type Request struct {
	Table      pointing.Table
	Periods    []float64 // candidate periods, days
	Phases     []float64 // fractional phases in [0,1)
	HalfWindow float64   // days; <= 0 derives from the table's mean spacing
	Workers    int       // <= 0 uses GOMAXPROCS
}

// Row is the result for one evaluated (period, phase) combination.
type Row struct {
	Period   float64 `json:"period"`
	Phase    float64 `json:"phase"`
	Epoch    float64 `json:"epoch"`
	Covered  int     `json:"covered"`        // sectors observing a transit
	First    int     `json:"first"`          // first covered sector index, -1 if none
	Last     int     `json:"last"`           // last covered sector index, -1 if none
	Transits int     `json:"transits"`       // transit epochs within the mission span
	Err      string  `json:"err,omitempty"`  // per-candidate failure, batch continues
}

// Run evaluates the full period x phase grid. Each candidate is processed
// in its own goroutine, bounded by a semaphore; cancellation marks the
// remaining rows rather than dropping them.
func Run(ctx context.Context, req Request) ([]Row, error) {
	if req.Table.Len() == 0 {
		return nil, fmt.Errorf("sweep: empty sector table")
	}
	if len(req.Periods) == 0 || len(req.Phases) == 0 {
		return nil, fmt.Errorf("sweep: empty candidate grid")
	}

	half := req.HalfWindow
	if half <= 0 {
		half = req.Table.MeanSpacing() / 2
		if half <= 0 {
			return nil, fmt.Errorf("sweep: cannot derive coverage window from a single-sector table")
		}
	}

	workers := req.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	start, stop := req.Table.Span()

	rows := make([]Row, len(req.Periods)*len(req.Phases))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for pi, period := range req.Periods {
		for fi, phase := range req.Phases {
			idx := pi*len(req.Phases) + fi
			wg.Add(1)
			go func(idx int, period, phase float64) {
				defer wg.Done()

				select {
				case sem <- struct{}{}:
					defer func() { <-sem }()
				case <-ctx.Done():
					rows[idx] = Row{Period: period, Phase: phase, First: -1, Last: -1, Err: "cancelled"}
					return
				}

				rows[idx] = evaluate(req.Table, period, phase, start, stop, half)
			}(idx, period, phase)
		}
	}

	wg.Wait()
	return rows, nil
}

// evaluate computes the coverage summary for a single candidate.
func evaluate(table pointing.Table, period, phase, start, stop, half float64) Row {
	row := Row{Period: period, Phase: phase, First: -1, Last: -1}

	epochs, err := transit.EpochsAtPhase(period, phase, start, stop)
	if err != nil {
		row.Err = err.Error()
		return row
	}
	row.Transits = len(epochs)

	sig := transit.SignalAtPhase(period, phase, start)
	row.Epoch = sig.Epoch

	covered, err := transit.Coverage(sig, table, half)
	if err != nil {
		row.Err = err.Error()
		return row
	}

	for i, c := range covered {
		if !c {
			continue
		}
		row.Covered++
		idx := table.At(i).Index
		if row.First == -1 {
			row.First = idx
		}
		row.Last = idx
	}
	return row
}

// PeriodGrid builds an inclusive min..max grid with the given step.
func PeriodGrid(min, max, step float64) ([]float64, error) {
	if min <= 0 || step <= 0 || max < min {
		return nil, fmt.Errorf("sweep: invalid period grid %g:%g:%g", min, max, step)
	}
	var grid []float64
	for p := min; p <= max+1e-12; p += step {
		grid = append(grid, p)
	}
	return grid, nil
}

// PhaseGrid builds n evenly spaced phases in [0, 1).
func PhaseGrid(n int) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("sweep: phase count must be positive, got %d", n)
	}
	grid := make([]float64, n)
	for i := range grid {
		grid[i] = float64(i) / float64(n)
	}
	return grid, nil
}
