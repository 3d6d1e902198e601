package results

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rae-holcomb/tess-scheduling/internal/sweep"
)

// Exporter writes sweep snapshots as timestamped CSV files on disk.
type Exporter struct {
	dir      string
	maxFiles int
}

// NewExporter creates an Exporter that writes into dir and keeps at most
// maxFiles snapshots.
func NewExporter(dir string, maxFiles int) *Exporter {
	if maxFiles <= 0 {
		maxFiles = 5
	}
	return &Exporter{
		dir:      dir,
		maxFiles: maxFiles,
	}
}

// Write saves rows to a timestamped file and prunes old snapshots beyond
// maxFiles. Returns the written path.
func (e *Exporter) Write(rows []sweep.Row, ts time.Time) (string, error) {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}

	filename := fmt.Sprintf("sweep_%d.csv", ts.Unix())
	path := filepath.Join(e.dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating export file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{"period", "phase", "epoch", "covered", "first", "last", "transits", "err"}); err != nil {
		f.Close()
		return "", fmt.Errorf("writing export header: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			strconv.FormatFloat(r.Period, 'g', -1, 64),
			strconv.FormatFloat(r.Phase, 'g', -1, 64),
			strconv.FormatFloat(r.Epoch, 'g', -1, 64),
			strconv.Itoa(r.Covered),
			strconv.Itoa(r.First),
			strconv.Itoa(r.Last),
			strconv.Itoa(r.Transits),
			r.Err,
		}
		if err := w.Write(rec); err != nil {
			f.Close()
			return "", fmt.Errorf("writing export row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return "", fmt.Errorf("flushing export: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing export file: %w", err)
	}

	return path, e.prune()
}

// LoadLatest reads the newest snapshot by the timestamp in the filename.
func (e *Exporter) LoadLatest() ([]sweep.Row, time.Time, error) {
	files, err := e.listFiles()
	if err != nil {
		return nil, time.Time{}, err
	}
	if len(files) == 0 {
		return nil, time.Time{}, fmt.Errorf("no sweep snapshots found")
	}

	latest := files[len(files)-1]
	f, err := os.Open(filepath.Join(e.dir, latest.name))
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("reading snapshot: %w", err)
	}
	defer f.Close()

	rd := csv.NewReader(f)
	recs, err := rd.ReadAll()
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("parsing snapshot: %w", err)
	}

	var rows []sweep.Row
	for i, rec := range recs {
		if i == 0 || len(rec) < 8 {
			continue
		}
		row := sweep.Row{Err: rec[7]}
		row.Period, _ = strconv.ParseFloat(rec[0], 64)
		row.Phase, _ = strconv.ParseFloat(rec[1], 64)
		row.Epoch, _ = strconv.ParseFloat(rec[2], 64)
		row.Covered, _ = strconv.Atoi(rec[3])
		row.First, _ = strconv.Atoi(rec[4])
		row.Last, _ = strconv.Atoi(rec[5])
		row.Transits, _ = strconv.Atoi(rec[6])
		rows = append(rows, row)
	}

	return rows, latest.ts, nil
}

type snapshotFile struct {
	name string
	ts   time.Time
}

func (e *Exporter) listFiles() ([]snapshotFile, error) {
	entries, err := os.ReadDir(e.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing export dir: %w", err)
	}

	var files []snapshotFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, "sweep_") || !strings.HasSuffix(name, ".csv") {
			continue
		}
		tsStr := strings.TrimSuffix(strings.TrimPrefix(name, "sweep_"), ".csv")
		unix, err := strconv.ParseInt(tsStr, 10, 64)
		if err != nil {
			continue
		}
		files = append(files, snapshotFile{name: name, ts: time.Unix(unix, 0)})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ts.Before(files[j].ts)
	})

	return files, nil
}

func (e *Exporter) prune() error {
	files, err := e.listFiles()
	if err != nil {
		return err
	}
	if len(files) <= e.maxFiles {
		return nil
	}

	for _, f := range files[:len(files)-e.maxFiles] {
		if err := os.Remove(filepath.Join(e.dir, f.name)); err != nil {
			return fmt.Errorf("pruning snapshot %s: %w", f.name, err)
		}
	}
	return nil
}
