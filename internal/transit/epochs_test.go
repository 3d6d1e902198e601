package transit

import (
	"math"
	"testing"
)

func TestEpochsPhaseZero(t *testing.T) {
	got, err := Epochs(10, 0, 0, 120)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100, 110}
	if len(got) != len(want) {
		t.Fatalf("got %d epochs, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("epoch %d = %g, want %g", i, got[i], want[i])
		}
	}
}

func TestEpochsReferenceInsideWindow(t *testing.T) {
	// Reference epoch 23 with period 10 folds to 3 at window start 0.
	got, err := Epochs(10, 23, 0, 40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []float64{3, 13, 23, 33}
	if len(got) != len(want) {
		t.Fatalf("got %d epochs, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("epoch %d = %g, want %g", i, got[i], want[i])
		}
	}
}

func TestEpochsReferenceBeforeStart(t *testing.T) {
	// A reference epoch far before the window must fold forward correctly.
	got, err := Epochs(7.5, -100, 1000, 1030)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("expected epochs in window")
	}

	for i, e := range got {
		if e < 1000 || e >= 1030 {
			t.Errorf("epoch %d = %g outside [1000,1030)", i, e)
		}
		// Each epoch must be an integer number of periods from the reference.
		n := (e - (-100)) / 7.5
		if math.Abs(n-math.Round(n)) > 1e-9 {
			t.Errorf("epoch %d = %g not an integer period from reference (n=%g)", i, e, n)
		}
	}

	// First epoch lies within one period of the start.
	if got[0]-1000 >= 7.5 {
		t.Errorf("first epoch %g more than one period after start", got[0])
	}
}

func TestEpochsStrictlyIncreasing(t *testing.T) {
	got, err := Epochs(3.3, 17.1, 0, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Errorf("epochs not strictly increasing at %d: %g then %g", i, got[i-1], got[i])
		}
		if math.Abs(got[i]-got[i-1]-3.3) > 1e-9 {
			t.Errorf("spacing at %d = %g, want period 3.3", i, got[i]-got[i-1])
		}
	}
}

func TestEpochsEmptyWindow(t *testing.T) {
	got, err := Epochs(10, 0, 50, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("zero-length window should yield no epochs, got %v", got)
	}
}

func TestEpochsRejectsBadInputs(t *testing.T) {
	if _, err := Epochs(0, 0, 0, 10); err == nil {
		t.Error("zero period should be rejected")
	}
	if _, err := Epochs(-5, 0, 0, 10); err == nil {
		t.Error("negative period should be rejected")
	}
	if _, err := Epochs(10, 0, 20, 10); err == nil {
		t.Error("stop before start should be rejected")
	}
}

func TestEpochsAtPhaseAgreesWithAbsolute(t *testing.T) {
	cases := []struct {
		period, phase, start, stop float64
	}{
		{10, 0, 0, 120},
		{10, 0.5, 0, 120},
		{27.9, 0.25, 1300, 1700},
		{3.3, 0.99, 0, 50},
	}

	for _, tc := range cases {
		byPhase, err := EpochsAtPhase(tc.period, tc.phase, tc.start, tc.stop)
		if err != nil {
			t.Fatalf("EpochsAtPhase(%v): %v", tc, err)
		}
		sig := SignalAtPhase(tc.period, tc.phase, tc.start)
		byEpoch, err := Epochs(sig.Period, sig.Epoch, tc.start, tc.stop)
		if err != nil {
			t.Fatalf("Epochs(%v): %v", tc, err)
		}

		if len(byPhase) != len(byEpoch) {
			t.Fatalf("phase form gave %d epochs, absolute form %d (case %+v)", len(byPhase), len(byEpoch), tc)
		}
		for i := range byPhase {
			if math.Abs(byPhase[i]-byEpoch[i]) > 1e-9 {
				t.Errorf("case %+v epoch %d: phase form %g, absolute form %g", tc, i, byPhase[i], byEpoch[i])
			}
		}
		if len(byPhase) > 0 {
			first := byPhase[0]
			if first < tc.start || first >= tc.start+tc.period {
				t.Errorf("case %+v: first epoch %g outside [start, start+period)", tc, first)
			}
		}
	}
}

func TestEpochsAtPhaseRejectsOutOfRange(t *testing.T) {
	if _, err := EpochsAtPhase(10, 1.0, 0, 100); err == nil {
		t.Error("phase 1.0 should be rejected")
	}
	if _, err := EpochsAtPhase(10, -0.1, 0, 100); err == nil {
		t.Error("negative phase should be rejected")
	}
}
