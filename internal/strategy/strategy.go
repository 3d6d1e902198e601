// Package strategy models extended-mission pointing strategies: ordered
// lists of previously used sector pointings to revisit after the nominal
// mission ends, and the realized sector sequence a target picks up under
// them.
package strategy

import (
	"fmt"

	"github.com/rae-holcomb/tess-scheduling/internal/catalog"
	"github.com/rae-holcomb/tess-scheduling/internal/coords"
	"github.com/rae-holcomb/tess-scheduling/internal/pointing"
)

// Strategy is an ordered list of base sector indices to repeat, in the
// order the extended mission would fly them.
type Strategy struct {
	Repeats []int
}

// Match selects the granularity at which an extension pointing counts as
// re-observing a target.
type Match int

const (
	// MatchField keeps an extension entry only when it repeats a sector
	// the target was confirmed in.
	MatchField Match = iota

	// MatchHemisphere keeps an extension entry when its pointing lies on
	// the same ecliptic hemisphere as the target's confirmed sectors. This
	// is the granularity year-long "repeat the south" strategies are
	// planned at: a target confirmed anywhere in a hemisphere-year is
	// observable by every repeated pointing of that year.
	MatchHemisphere
)

// Extend realizes the extension described by strat against the base table.
// Extension entry k repeats the pointing of base sector Repeats[k], takes
// realized index max(base)+k+1, and continues the base midpoint cadence.
func Extend(base pointing.Table, strat Strategy) ([]pointing.Sector, error) {
	if len(strat.Repeats) == 0 {
		return nil, nil
	}

	byIndex := make(map[int]pointing.Sector, base.Len())
	for _, s := range base.Sectors() {
		byIndex[s.Index] = s
	}

	spacing := base.MeanSpacing()
	if spacing <= 0 {
		return nil, fmt.Errorf("strategy: base table has no usable cadence")
	}
	last := base.At(base.Len() - 1)
	nextIndex := base.MaxIndex() + 1

	ext := make([]pointing.Sector, 0, len(strat.Repeats))
	for k, rep := range strat.Repeats {
		src, ok := byIndex[rep]
		if !ok {
			return nil, fmt.Errorf("strategy: repeat of unknown sector %d", rep)
		}

		mid := last.Midpoint + float64(k+1)*spacing
		ext = append(ext, pointing.Sector{
			Index:    nextIndex + k,
			RA:       src.RA,
			Dec:      src.Dec,
			Roll:     src.Roll,
			Start:    mid - spacing/2,
			End:      mid + spacing/2,
			Midpoint: mid,
			RepeatOf: rep,
		})
	}
	return ext, nil
}

// Apply returns the extension sectors a target would actually be observed
// in: the realized list from Extend, filtered to entries whose pointing
// matches one the target was already confirmed in, at the given match
// granularity. The base sectors the target was confirmed in are not
// repeated in the output; callers feed the result to alias resolution as
// the newly appended coverage.
func Apply(base pointing.Table, strat Strategy, tgt catalog.Target, m Match) ([]pointing.Sector, error) {
	ext, err := Extend(base, strat)
	if err != nil {
		return nil, err
	}
	if len(ext) == 0 || len(tgt.Sectors) == 0 {
		return nil, nil
	}

	switch m {
	case MatchField:
		confirmed := make(map[int]bool, len(tgt.Sectors))
		for _, s := range tgt.Sectors {
			confirmed[s] = true
		}
		kept := make([]pointing.Sector, 0, len(ext))
		for _, s := range ext {
			if confirmed[s.RepeatOf] {
				kept = append(kept, s)
			}
		}
		return kept, nil

	case MatchHemisphere:
		south, err := confirmedHemisphere(base, tgt)
		if err != nil {
			return nil, err
		}
		kept := make([]pointing.Sector, 0, len(ext))
		for _, s := range ext {
			if coords.SouthernEcliptic(s.RA, s.Dec) == south {
				kept = append(kept, s)
			}
		}
		return kept, nil

	default:
		return nil, fmt.Errorf("strategy: unknown match mode %d", m)
	}
}

// confirmedHemisphere returns the ecliptic hemisphere (south=true) of the
// target's first confirmed sector's pointing.
func confirmedHemisphere(base pointing.Table, tgt catalog.Target) (bool, error) {
	byIndex := make(map[int]pointing.Sector, base.Len())
	for _, s := range base.Sectors() {
		byIndex[s.Index] = s
	}
	for _, idx := range tgt.Sectors {
		if s, ok := byIndex[idx]; ok {
			return coords.SouthernEcliptic(s.RA, s.Dec), nil
		}
	}
	return false, fmt.Errorf("strategy: target %d has no confirmed sector in the base table", tgt.TIC)
}

// RealizedIndices is a convenience over Apply returning just the sector
// indices, in scan order.
func RealizedIndices(base pointing.Table, strat Strategy, tgt catalog.Target, m Match) ([]int, error) {
	kept, err := Apply(base, strat, tgt, m)
	if err != nil {
		return nil, err
	}
	idx := make([]int, len(kept))
	for i, s := range kept {
		idx[i] = s.Index
	}
	return idx, nil
}
