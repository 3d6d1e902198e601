package pointing

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestExporterRoundTrip(t *testing.T) {
	base, err := Parse(strings.NewReader(sampleTable), discardLogger())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	table, err := base.Extend([]Sector{
		{Index: 4, RA: 352.6844, Dec: -64.8531, Roll: 222.1532,
			Start: 1410.0, End: 1437.0, Midpoint: 1423.5, RepeatOf: 1},
	})
	if err != nil {
		t.Fatalf("Extend: %v", err)
	}

	exp := NewExporter(t.TempDir(), 5)
	path, err := exp.Write(table, time.Unix(1_700_000_000, 0))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening snapshot: %v", err)
	}
	defer f.Close()

	reread, err := Parse(f, discardLogger())
	if err != nil {
		t.Fatalf("reparsing snapshot: %v", err)
	}
	if reread.Len() != table.Len() {
		t.Fatalf("snapshot has %d sectors, want %d", reread.Len(), table.Len())
	}
	for i := 0; i < table.Len(); i++ {
		if reread.At(i).Index != table.At(i).Index {
			t.Errorf("sector %d: index %d after round trip, want %d", i, reread.At(i).Index, table.At(i).Index)
		}
		if reread.At(i).RepeatOf != table.At(i).RepeatOf {
			t.Errorf("sector %d: repeat_of %d after round trip, want %d", i, reread.At(i).RepeatOf, table.At(i).RepeatOf)
		}
	}
}

func TestExporterPruneAndLatest(t *testing.T) {
	table, err := Parse(strings.NewReader(sampleTable), discardLogger())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	exp := NewExporter(t.TempDir(), 2)
	base := time.Unix(1_700_000_000, 0)
	var last string
	for i := 0; i < 4; i++ {
		last, err = exp.Write(table, base.Add(time.Duration(i)*time.Hour))
		if err != nil {
			t.Fatalf("Write %d: %v", i, err)
		}
	}

	names, err := exp.list()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 2 {
		t.Errorf("kept %d snapshots, want 2", len(names))
	}

	latest, err := exp.Latest()
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest != last {
		t.Errorf("Latest() = %s, want %s", latest, last)
	}
}

func TestExporterLatestEmpty(t *testing.T) {
	exp := NewExporter(t.TempDir(), 2)
	if _, err := exp.Latest(); err == nil {
		t.Error("Latest on an empty dir should fail")
	}
}
