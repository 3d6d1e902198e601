package pointing

import (
	"fmt"
	"time"
)

// Sector is one fixed-duration pointing of the survey. Times are in mission
// days (TJD = JD - 2457000.0), matching the published pointing products.
type Sector struct {
	Index    int     `json:"index"`
	RA       float64 `json:"ra"`   // camera boresight right ascension, degrees
	Dec      float64 `json:"dec"`  // camera boresight declination, degrees
	Roll     float64 `json:"roll"` // spacecraft roll, degrees
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Midpoint float64 `json:"midpoint"`

	// RepeatOf is the base sector index this entry re-observes, or 0 for
	// nominal-mission sectors.
	RepeatOf int `json:"repeat_of,omitempty"`
}

// Table is an ordered, immutable sequence of sectors.
type Table struct {
	sectors []Sector
}

// NewTable validates and wraps a sector sequence. The sequence must be
// non-empty with strictly increasing midpoints and unique indices.
func NewTable(sectors []Sector) (Table, error) {
	if len(sectors) == 0 {
		return Table{}, fmt.Errorf("pointing: empty sector table")
	}

	seen := make(map[int]bool, len(sectors))
	for i, s := range sectors {
		if seen[s.Index] {
			return Table{}, fmt.Errorf("pointing: duplicate sector index %d", s.Index)
		}
		seen[s.Index] = true
		if i > 0 && sectors[i].Midpoint <= sectors[i-1].Midpoint {
			return Table{}, fmt.Errorf("pointing: midpoints not increasing at sector %d (%.4f after %.4f)",
				s.Index, s.Midpoint, sectors[i-1].Midpoint)
		}
	}

	cp := make([]Sector, len(sectors))
	copy(cp, sectors)
	return Table{sectors: cp}, nil
}

// Len returns the number of sectors.
func (t Table) Len() int { return len(t.sectors) }

// At returns the i-th sector (0-based position, not sector index).
func (t Table) At(i int) Sector { return t.sectors[i] }

// Sectors returns a copy of the sector sequence.
func (t Table) Sectors() []Sector {
	cp := make([]Sector, len(t.sectors))
	copy(cp, t.sectors)
	return cp
}

// Midpoints returns the midpoint times in table order.
func (t Table) Midpoints() []float64 {
	mids := make([]float64, len(t.sectors))
	for i, s := range t.sectors {
		mids[i] = s.Midpoint
	}
	return mids
}

// MaxIndex returns the largest sector index in the table.
func (t Table) MaxIndex() int {
	max := 0
	for _, s := range t.sectors {
		if s.Index > max {
			max = s.Index
		}
	}
	return max
}

// MeanSpacing returns the average midpoint-to-midpoint gap in days.
// Returns 0 for a single-sector table; callers that need a coverage
// window must then supply one explicitly.
func (t Table) MeanSpacing() float64 {
	if len(t.sectors) < 2 {
		return 0
	}
	span := t.sectors[len(t.sectors)-1].Midpoint - t.sectors[0].Midpoint
	return span / float64(len(t.sectors)-1)
}

// Span returns the [start, stop) time range covered by the table, taken
// from the first sector's start to the last sector's end.
func (t Table) Span() (start, stop float64) {
	return t.sectors[0].Start, t.sectors[len(t.sectors)-1].End
}

// Extend returns a new table with extra sectors appended. The appended
// sectors must continue the midpoint ordering.
func (t Table) Extend(extra []Sector) (Table, error) {
	merged := make([]Sector, 0, len(t.sectors)+len(extra))
	merged = append(merged, t.sectors...)
	merged = append(merged, extra...)
	return NewTable(merged)
}

// Snapshot pairs a table with load metadata for the atomic store.
type Snapshot struct {
	Table    Table
	Source   string
	LoadedAt time.Time
}
