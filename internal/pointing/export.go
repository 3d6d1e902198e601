package pointing

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Exporter writes timestamped pointing-table snapshots on disk, pruning old
// ones past maxFiles. Used to keep a history of extended tables alongside
// the live file.
type Exporter struct {
	dir      string
	maxFiles int
}

// NewExporter creates an Exporter writing into dir, keeping maxFiles
// snapshots.
func NewExporter(dir string, maxFiles int) *Exporter {
	if maxFiles <= 0 {
		maxFiles = 5
	}
	return &Exporter{dir: dir, maxFiles: maxFiles}
}

// Write saves the table as pointings_<unix>.csv and prunes old snapshots.
// Snapshots carry a trailing RepeatOf column so that re-parsing an extended
// table keeps its repeat provenance. Returns the written path.
func (e *Exporter) Write(table Table, ts time.Time) (string, error) {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return "", fmt.Errorf("creating snapshot dir: %w", err)
	}

	path := filepath.Join(e.dir, fmt.Sprintf("pointings_%d.csv", ts.Unix()))

	var b strings.Builder
	b.WriteString("Sector,RA,Dec,Roll,Start,End,RepeatOf\n")
	for _, s := range table.Sectors() {
		fmt.Fprintf(&b, "%d,%.4f,%.4f,%.4f,%.4f,%.4f,%d\n",
			s.Index, s.RA, s.Dec, s.Roll, s.Start, s.End, s.RepeatOf)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("writing snapshot: %w", err)
	}
	return path, e.prune()
}

// Latest returns the path of the newest snapshot by filename timestamp, or
// an error when none exist.
func (e *Exporter) Latest() (string, error) {
	names, err := e.list()
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no pointing snapshots in %s", e.dir)
	}
	return filepath.Join(e.dir, names[len(names)-1]), nil
}

// list returns snapshot filenames ordered oldest first.
func (e *Exporter) list() ([]string, error) {
	entries, err := os.ReadDir(e.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing snapshot dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "pointings_") || !strings.HasSuffix(name, ".csv") {
			continue
		}
		ts := strings.TrimSuffix(strings.TrimPrefix(name, "pointings_"), ".csv")
		if _, err := strconv.ParseInt(ts, 10, 64); err != nil {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (e *Exporter) prune() error {
	names, err := e.list()
	if err != nil {
		return err
	}
	if len(names) <= e.maxFiles {
		return nil
	}
	for _, name := range names[:len(names)-e.maxFiles] {
		if err := os.Remove(filepath.Join(e.dir, name)); err != nil {
			return fmt.Errorf("pruning snapshot %s: %w", name, err)
		}
	}
	return nil
}
