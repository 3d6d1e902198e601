package alias

import (
	"testing"

	"github.com/rae-holcomb/tess-scheduling/internal/pointing"
	"github.com/rae-holcomb/tess-scheduling/internal/transit"
)

// sectorsAt builds sectors with the given midpoints, one day long.
func sectorsAt(mids ...float64) []pointing.Sector {
	out := make([]pointing.Sector, len(mids))
	for i, m := range mids {
		out[i] = pointing.Sector{Index: i + 100, Start: m - 0.5, End: m + 0.5, Midpoint: m}
	}
	return out
}

func TestNewSetRejectsNonPositivePeriod(t *testing.T) {
	if _, err := NewSet(0, []float64{10, -1}); err == nil {
		t.Error("negative alias period should be rejected")
	}
	if _, err := NewSet(0, []float64{0}); err == nil {
		t.Error("zero alias period should be rejected")
	}
}

func TestResolveRulesOutDisagreeingAlias(t *testing.T) {
	truth := transit.Signal{Period: 20, Epoch: 0}
	set, err := NewSet(0, []float64{10, 20})
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}

	// Midpoint 10: the true 20-day signal has no transit there, the 10-day
	// alias does. The exact 20-day duplicate always agrees.
	added := sectorsAt(10)
	ruled, err := Resolve(truth, set, added, 1)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ruled != 1 {
		t.Fatalf("ruled out %d aliases, want 1", ruled)
	}
	if !set.Candidates[0].RuledOut {
		t.Error("10-day alias should be ruled out")
	}
	if set.Candidates[1].RuledOut {
		t.Error("20-day duplicate can never be ruled out")
	}
	if set.Remaining() != 1 {
		t.Errorf("Remaining() = %d, want 1", set.Remaining())
	}
}

func TestResolveCoincidentalAgreementSurvives(t *testing.T) {
	truth := transit.Signal{Period: 20, Epoch: 0}
	set, err := NewSet(0, []float64{10})
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}

	// Midpoint 40 is a transit of both the 20-day truth and the 10-day
	// alias; agreement keeps the alias alive.
	ruled, err := Resolve(truth, set, sectorsAt(40), 1)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ruled != 0 {
		t.Fatalf("ruled out %d aliases, want 0", ruled)
	}
	if set.Candidates[0].RuledOut {
		t.Error("alias agreeing on every added sector must survive")
	}
}

func TestResolveMonotonic(t *testing.T) {
	truth := transit.Signal{Period: 20, Epoch: 0}
	set, err := NewSet(0, []float64{10})
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}

	if _, err := Resolve(truth, set, sectorsAt(10), 1); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !set.Candidates[0].RuledOut {
		t.Fatal("alias should be ruled out after the disagreeing sector")
	}

	// Further sectors where the alias would agree must not resurrect it.
	ruled, err := Resolve(truth, set, sectorsAt(40), 1)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ruled != 0 {
		t.Errorf("already ruled-out alias counted again: %d", ruled)
	}
	if !set.Candidates[0].RuledOut {
		t.Error("ruled-out flag must never clear")
	}
}

func TestResolveIdempotentOnSameSectors(t *testing.T) {
	truth := transit.Signal{Period: 20, Epoch: 0}
	set, err := NewSet(0, []float64{10, 7})
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}

	added := sectorsAt(10, 30)
	first, err := Resolve(truth, set, added, 1)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	second, err := Resolve(truth, set, added, 1)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if second != 0 {
		t.Errorf("second identical Resolve ruled out %d more (first ruled %d)", second, first)
	}
}

func TestResolveNoSectorsNoChange(t *testing.T) {
	set, err := NewSet(0, []float64{10})
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	ruled, err := Resolve(transit.Signal{Period: 20}, set, nil, 1)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ruled != 0 || set.Remaining() != 1 {
		t.Errorf("empty sector list must be a no-op: ruled=%d remaining=%d", ruled, set.Remaining())
	}
}
