// Package alias tracks candidate periods that mimic a true transit signal
// under the current sector coverage, and rules them out as new sectors are
// observed.
package alias

import (
	"fmt"

	"github.com/rae-holcomb/tess-scheduling/internal/pointing"
	"github.com/rae-holcomb/tess-scheduling/internal/transit"
)

// Candidate is one alias period and its ruled-out flag. RuledOut is the
// only mutable state in the system; once set it is never cleared.
type Candidate struct {
	Period   float64 `json:"period"`
	RuledOut bool    `json:"ruled_out"`
}

// Set is a collection of alias periods sharing a reference epoch.
type Set struct {
	Epoch      float64     `json:"epoch"`
	Candidates []Candidate `json:"candidates"`
}

// NewSet builds a Set from alias periods sharing the given reference epoch.
// Non-positive periods are rejected.
func NewSet(epoch float64, periods []float64) (*Set, error) {
	cands := make([]Candidate, 0, len(periods))
	for _, p := range periods {
		if p <= 0 {
			return nil, fmt.Errorf("alias: period must be positive, got %g", p)
		}
		cands = append(cands, Candidate{Period: p})
	}
	return &Set{Epoch: epoch, Candidates: cands}, nil
}

// Remaining returns the number of candidates not yet ruled out.
func (s *Set) Remaining() int {
	n := 0
	for _, c := range s.Candidates {
		if !c.RuledOut {
			n++
		}
	}
	return n
}

// Resolve updates the set against newly appended sectors: an alias is newly
// ruled out when its predicted coverage over the added sectors disagrees
// with the true signal's on at least one sector. Already ruled-out aliases
// are skipped, so repeated calls with further sectors only ever add flags.
// Coincidental agreement on every added sector keeps an alias alive.
// Returns the number of aliases newly ruled out.
func Resolve(truth transit.Signal, set *Set, added []pointing.Sector, halfWindow float64) (int, error) {
	if set == nil {
		return 0, fmt.Errorf("alias: nil set")
	}
	if len(added) == 0 {
		return 0, nil
	}
	if halfWindow <= 0 {
		return 0, fmt.Errorf("alias: half-window must be positive, got %g", halfWindow)
	}

	mids := make([]float64, len(added))
	for i, s := range added {
		mids[i] = s.Midpoint
	}

	truthCov, err := transit.CoverageMidpoints(truth, mids, halfWindow)
	if err != nil {
		return 0, err
	}

	ruled := 0
	for i := range set.Candidates {
		c := &set.Candidates[i]
		if c.RuledOut {
			continue
		}

		cov, err := transit.CoverageMidpoints(transit.Signal{Period: c.Period, Epoch: set.Epoch}, mids, halfWindow)
		if err != nil {
			return ruled, err
		}

		for j := range cov {
			if cov[j] != truthCov[j] {
				c.RuledOut = true
				ruled++
				break
			}
		}
	}

	return ruled, nil
}
