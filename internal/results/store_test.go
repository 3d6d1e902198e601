package results

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rae-holcomb/tess-scheduling/internal/sweep"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

var testRows = []sweep.Row{
	{Period: 5, Phase: 0, Epoch: 0, Covered: 13, First: 1, Last: 13, Transits: 71},
	{Period: 5, Phase: 0.5, Epoch: 2.5, Covered: 13, First: 1, Last: 13, Transits: 70},
	{Period: 108, Phase: 0.25, Epoch: 27, Covered: 3, First: 3, Last: 11, Transits: 4},
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	id, err := store.BeginSweep(ctx, "pointings.csv", 13, 13.5)
	if err != nil {
		t.Fatalf("BeginSweep: %v", err)
	}
	if err := store.InsertRows(ctx, id, testRows); err != nil {
		t.Fatalf("InsertRows: %v", err)
	}

	got, err := store.Rows(ctx, id)
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(got) != len(testRows) {
		t.Fatalf("read %d rows, want %d", len(got), len(testRows))
	}
	// Rows come back ordered by period then phase.
	if got[0].Period != 5 || got[0].Phase != 0 {
		t.Errorf("first row = (P=%g, phi=%g), want (5, 0)", got[0].Period, got[0].Phase)
	}
	if got[2].Period != 108 || got[2].Covered != 3 {
		t.Errorf("last row = %+v", got[2])
	}
}

func TestStoreUpsert(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	id, err := store.BeginSweep(ctx, "pointings.csv", 13, 13.5)
	if err != nil {
		t.Fatalf("BeginSweep: %v", err)
	}
	if err := store.InsertRows(ctx, id, testRows[:1]); err != nil {
		t.Fatalf("InsertRows: %v", err)
	}

	// Re-inserting the same (period, phase) replaces the row instead of
	// duplicating it.
	updated := testRows[0]
	updated.Covered = 7
	if err := store.InsertRows(ctx, id, []sweep.Row{updated}); err != nil {
		t.Fatalf("InsertRows (upsert): %v", err)
	}

	got, err := store.Rows(ctx, id)
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("upsert duplicated the row: %d rows", len(got))
	}
	if got[0].Covered != 7 {
		t.Errorf("Covered = %d after upsert, want 7", got[0].Covered)
	}
}

func TestStoreSweepsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	first, err := store.BeginSweep(ctx, "a.csv", 13, 13.5)
	if err != nil {
		t.Fatalf("BeginSweep: %v", err)
	}
	second, err := store.BeginSweep(ctx, "b.csv", 26, 13.5)
	if err != nil {
		t.Fatalf("BeginSweep: %v", err)
	}

	metas, err := store.Sweeps(ctx)
	if err != nil {
		t.Fatalf("Sweeps: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("got %d sweeps, want 2", len(metas))
	}
	if metas[0].ID != second || metas[1].ID != first {
		t.Errorf("sweeps not newest-first: %d, %d", metas[0].ID, metas[1].ID)
	}
	if metas[0].Pointing != "b.csv" || metas[0].Sectors != 26 {
		t.Errorf("sweep metadata = %+v", metas[0])
	}
	if metas[0].StartedAt.IsZero() {
		t.Error("started_at not recorded")
	}

	latest, err := store.LatestSweep(ctx)
	if err != nil {
		t.Fatalf("LatestSweep: %v", err)
	}
	if latest.ID != second {
		t.Errorf("LatestSweep = %d, want %d", latest.ID, second)
	}
}

func TestLatestSweepEmpty(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.LatestSweep(context.Background()); !errors.Is(err, ErrNoSweep) {
		t.Errorf("LatestSweep on empty store = %v, want ErrNoSweep", err)
	}
}

func TestStoreReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "results.db")

	store, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	id, err := store.BeginSweep(ctx, "pointings.csv", 13, 13.5)
	if err != nil {
		t.Fatalf("BeginSweep: %v", err)
	}
	if err := store.InsertRows(ctx, id, testRows); err != nil {
		t.Fatalf("InsertRows: %v", err)
	}
	store.Close()

	reopened, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Rows(ctx, id)
	if err != nil {
		t.Fatalf("Rows after reopen: %v", err)
	}
	if len(got) != len(testRows) {
		t.Errorf("read %d rows after reopen, want %d", len(got), len(testRows))
	}
}

func TestParseTimestampFormats(t *testing.T) {
	for _, ts := range []string{"2026-08-30T12:00:00Z", "2026-08-30 12:00:00"} {
		got, err := parseTimestamp(ts)
		if err != nil {
			t.Errorf("parseTimestamp(%q): %v", ts, err)
			continue
		}
		if got.Year() != 2026 || got.Hour() != 12 {
			t.Errorf("parseTimestamp(%q) = %v", ts, got)
		}
	}
	if _, err := parseTimestamp("yesterday"); err == nil {
		t.Error("garbage timestamp should be rejected")
	}
}

func TestExporterWriteAndLoad(t *testing.T) {
	dir := t.TempDir()
	exp := NewExporter(dir, 5)

	ts := time.Unix(1_700_000_000, 0)
	path, err := exp.Write(testRows, ts)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("snapshot written to %s, want under %s", path, dir)
	}

	rows, loadedTS, err := exp.LoadLatest()
	if err != nil {
		t.Fatalf("LoadLatest: %v", err)
	}
	if !loadedTS.Equal(ts) {
		t.Errorf("loaded timestamp %v, want %v", loadedTS, ts)
	}
	if len(rows) != len(testRows) {
		t.Fatalf("loaded %d rows, want %d", len(rows), len(testRows))
	}
	if rows[2].Period != 108 || rows[2].First != 3 || rows[2].Last != 11 {
		t.Errorf("loaded row = %+v", rows[2])
	}
}

func TestExporterPrune(t *testing.T) {
	dir := t.TempDir()
	exp := NewExporter(dir, 2)

	base := time.Unix(1_700_000_000, 0)
	for i := 0; i < 4; i++ {
		if _, err := exp.Write(testRows[:1], base.Add(time.Duration(i)*time.Hour)); err != nil {
			t.Fatalf("Write %d: %v", i, err)
		}
	}

	files, err := exp.listFiles()
	if err != nil {
		t.Fatalf("listFiles: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("kept %d snapshots, want 2", len(files))
	}

	// The newest snapshot survives pruning.
	_, ts, err := exp.LoadLatest()
	if err != nil {
		t.Fatalf("LoadLatest: %v", err)
	}
	if want := base.Add(3 * time.Hour); !ts.Equal(want) {
		t.Errorf("latest snapshot at %v, want %v", ts, want)
	}
}

func TestExporterLoadLatestEmpty(t *testing.T) {
	exp := NewExporter(filepath.Join(t.TempDir(), "missing"), 5)
	if _, _, err := exp.LoadLatest(); err == nil {
		t.Error("empty exporter should report no snapshots")
	}
}
