package catalog

import (
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadTargetsBasic(t *testing.T) {
	in := `tic,ra,dec,tmag,sectors
261136679,84.2912,-80.4691,9.72,"1,2,3,13"
149603524,108.0533,-63.7465,9.27,1 2 3
`
	targets, err := LoadTargets(strings.NewReader(in), discardLogger())
	if err != nil {
		t.Fatalf("LoadTargets: %v", err)
	}
	if len(targets) != 2 {
		t.Fatalf("loaded %d targets, want 2", len(targets))
	}

	tg := targets[0]
	if tg.TIC != 261136679 {
		t.Errorf("TIC = %d, want 261136679", tg.TIC)
	}
	if math.Abs(tg.RA-84.2912) > 1e-9 || math.Abs(tg.Tmag-9.72) > 1e-9 {
		t.Errorf("RA/Tmag = %g/%g", tg.RA, tg.Tmag)
	}
	if len(tg.Sectors) != 4 || tg.Sectors[3] != 13 {
		t.Errorf("sectors = %v, want [1 2 3 13]", tg.Sectors)
	}

	// Ecliptic coordinates are derived when the file has none.
	if tg.EclipticLat >= 0 {
		t.Errorf("ecliptic latitude = %g, want southern (negative)", tg.EclipticLat)
	}

	// Space-delimited sector cell.
	if got := targets[1].Sectors; len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("space-delimited sectors = %v, want [1 2 3]", got)
	}
}

func TestLoadTargetsHeaderAliases(t *testing.T) {
	in := `TIC_ID,RAJ2000,DEJ2000,TESSMAG,observed_sectors
42,10.0,-45.0,11.5,5;6
`
	targets, err := LoadTargets(strings.NewReader(in), discardLogger())
	if err != nil {
		t.Fatalf("LoadTargets: %v", err)
	}
	if len(targets) != 1 {
		t.Fatalf("loaded %d targets, want 1", len(targets))
	}
	tg := targets[0]
	if tg.TIC != 42 || tg.Dec != -45.0 || tg.Tmag != 11.5 {
		t.Errorf("aliased columns not resolved: %+v", tg)
	}
	if len(tg.Sectors) != 2 || tg.Sectors[1] != 6 {
		t.Errorf("semicolon sector list = %v, want [5 6]", tg.Sectors)
	}
}

func TestLoadTargetsSkipsBadRows(t *testing.T) {
	in := `tic,sectors
1,"1,2"
not-a-tic,"3"
2,"4,banana"
3,5
`
	targets, err := LoadTargets(strings.NewReader(in), discardLogger())
	if err != nil {
		t.Fatalf("LoadTargets: %v", err)
	}
	if len(targets) != 2 {
		t.Fatalf("loaded %d targets, want 2 (bad rows skipped)", len(targets))
	}
	if targets[0].TIC != 1 || targets[1].TIC != 3 {
		t.Errorf("surviving TICs = %d, %d", targets[0].TIC, targets[1].TIC)
	}
}

func TestLoadTargetsSkipsRowShorterThanIDColumn(t *testing.T) {
	// The ID column sits past the end of the truncated row; the load must
	// warn and move on, not panic.
	in := `ra,dec,tic,sectors
1.0
84.29,-80.47,42,"1,2"
`
	targets, err := LoadTargets(strings.NewReader(in), discardLogger())
	if err != nil {
		t.Fatalf("LoadTargets: %v", err)
	}
	if len(targets) != 1 {
		t.Fatalf("loaded %d targets, want 1 (short row skipped)", len(targets))
	}
	if targets[0].TIC != 42 {
		t.Errorf("surviving TIC = %d, want 42", targets[0].TIC)
	}
}

func TestLoadTargetsNoIDColumn(t *testing.T) {
	in := "ra,dec\n1.0,2.0\n"
	if _, err := LoadTargets(strings.NewReader(in), discardLogger()); err == nil {
		t.Error("a file without an ID column should be rejected")
	}
}

func TestLoadTargetsBracketedSectorList(t *testing.T) {
	in := "tic,sectors\n7,\"[1, 2, 3]\"\n"
	targets, err := LoadTargets(strings.NewReader(in), discardLogger())
	if err != nil {
		t.Fatalf("LoadTargets: %v", err)
	}
	if len(targets) != 1 || len(targets[0].Sectors) != 3 {
		t.Fatalf("bracketed sector cell not parsed: %+v", targets)
	}
}

func TestJoin(t *testing.T) {
	targets := []Target{
		{TIC: 1, Sectors: []int{1, 2}},
		{TIC: 2, Sectors: []int{3}},
	}
	stars := []Target{
		{TIC: 1, RA: 84.29, Dec: -80.47, Tmag: 9.7},
	}

	joined := Join(targets, stars)
	if len(joined) != 2 {
		t.Fatalf("joined %d targets, want 2", len(joined))
	}

	if joined[0].RA != 84.29 || joined[0].Tmag != 9.7 {
		t.Errorf("catalog fields not joined: %+v", joined[0])
	}
	if len(joined[0].Sectors) != 2 {
		t.Errorf("sector list lost in join: %+v", joined[0])
	}
	// Ecliptic coordinates derived during the join.
	if joined[0].EclipticLat >= 0 {
		t.Errorf("ecliptic latitude = %g, want southern", joined[0].EclipticLat)
	}

	// No catalog row: target passes through unchanged.
	if joined[1].RA != 0 || joined[1].Tmag != 0 {
		t.Errorf("unmatched target modified: %+v", joined[1])
	}
}

func TestObservedIn(t *testing.T) {
	tg := Target{Sectors: []int{1, 5, 13}}
	if !tg.ObservedIn(5) {
		t.Error("ObservedIn(5) = false, want true")
	}
	if tg.ObservedIn(2) {
		t.Error("ObservedIn(2) = true, want false")
	}
}
