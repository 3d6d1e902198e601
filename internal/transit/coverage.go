package transit

import (
	"fmt"
	"math"

	"github.com/rae-holcomb/tess-scheduling/internal/pointing"
)

// Coverage reports, for each sector in the table, whether a transit epoch
// of sig falls inside that sector's observation window. The window is the
// sector midpoint +/- halfWindow days; pass halfWindow <= 0 to use half the
// table's mean inter-sector spacing. The returned slice is aligned with the
// table's sector order.
func Coverage(sig Signal, table pointing.Table, halfWindow float64) ([]bool, error) {
	if table.Len() == 0 {
		return nil, fmt.Errorf("transit: empty sector table")
	}
	if halfWindow <= 0 {
		halfWindow = table.MeanSpacing() / 2
		if halfWindow <= 0 {
			return nil, fmt.Errorf("transit: cannot derive coverage window from a single-sector table")
		}
	}
	return CoverageMidpoints(sig, table.Midpoints(), halfWindow)
}

// CoverageMidpoints is the midpoint-sequence form of Coverage, used when the
// sectors under test are not a full validated table (e.g. a hypothetical
// extension). halfWindow must be positive here.
func CoverageMidpoints(sig Signal, midpoints []float64, halfWindow float64) ([]bool, error) {
	if sig.Period <= 0 {
		return nil, fmt.Errorf("transit: period must be positive, got %g", sig.Period)
	}
	if halfWindow <= 0 {
		return nil, fmt.Errorf("transit: half-window must be positive, got %g", halfWindow)
	}

	covered := make([]bool, len(midpoints))
	for i, mid := range midpoints {
		covered[i] = observes(sig, mid, halfWindow)
	}
	return covered, nil
}

// observes reports whether some transit epoch lies within mid +/- halfWindow.
// Works on the distance from the midpoint to the nearest epoch, so no epoch
// sequence needs materializing.
func observes(sig Signal, mid, halfWindow float64) bool {
	d := math.Mod(mid-sig.Epoch, sig.Period)
	if d < 0 {
		d += sig.Period
	}
	if d > sig.Period/2 {
		d = sig.Period - d
	}
	return d <= halfWindow+epochTol
}
