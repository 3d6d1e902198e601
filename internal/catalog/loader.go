// Package catalog loads target observation lists and stellar catalogs from
// flat tabular files. Columns are located by header name with the aliases
// the upstream products use, so renamed exports load without editing.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/rae-holcomb/tess-scheduling/internal/coords"
)

// columnAliases maps canonical column names to the header spellings seen in
// upstream catalog exports.
var columnAliases = map[string][]string{
	"tic":     {"tic", "tic_id", "ticid", "id"},
	"ra":      {"ra", "raj2000", "ra_deg"},
	"dec":     {"dec", "dej2000", "dec_deg"},
	"elon":    {"elon", "eclong", "ecliptic_lon"},
	"elat":    {"elat", "eclat", "ecliptic_lat"},
	"tmag":    {"tmag", "tessmag", "mag"},
	"sectors": {"sectors", "observed_sectors", "sectors_observed"},
}

// LoadTargets reads a CSV of target records. Required columns: tic and
// sectors (a space-, comma-, or semicolon-delimited list of sector indices
// in one cell). Position and magnitude columns are filled when present;
// missing ecliptic coordinates are derived from RA/Dec. Malformed rows are
// skipped with a warning log.
func LoadTargets(r io.Reader, logger *slog.Logger) ([]Target, error) {
	rd := csv.NewReader(r)
	rd.TrimLeadingSpace = true
	rd.FieldsPerRecord = -1

	header, err := rd.Read()
	if err != nil {
		return nil, fmt.Errorf("catalog: reading header: %w", err)
	}
	cols := indexColumns(header)

	ticCol, ok := cols["tic"]
	if !ok {
		return nil, fmt.Errorf("catalog: no catalog ID column in header %v", header)
	}
	sectorsCol, hasSectors := cols["sectors"]

	var targets []Target
	line := 1
	for {
		rec, err := rd.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			logger.Warn("skipping malformed catalog row", "line", line, "error", err)
			continue
		}

		if ticCol >= len(rec) {
			logger.Warn("skipping short catalog row", "line", line, "fields", len(rec))
			continue
		}

		tic, err := strconv.ParseInt(strings.TrimSpace(rec[ticCol]), 10, 64)
		if err != nil {
			logger.Warn("skipping catalog row with invalid ID", "line", line, "value", rec[ticCol])
			continue
		}

		t := Target{TIC: tic}
		if hasSectors && sectorsCol < len(rec) {
			t.Sectors, err = parseSectorList(rec[sectorsCol])
			if err != nil {
				logger.Warn("skipping catalog row with invalid sector list", "line", line, "value", rec[sectorsCol], "error", err)
				continue
			}
		}

		t.RA = optFloat(rec, cols, "ra")
		t.Dec = optFloat(rec, cols, "dec")
		t.Tmag = optFloat(rec, cols, "tmag")
		t.EclipticLon = optFloat(rec, cols, "elon")
		t.EclipticLat = optFloat(rec, cols, "elat")

		if _, hasLat := cols["elat"]; !hasLat && (t.RA != 0 || t.Dec != 0) {
			t.EclipticLon, t.EclipticLat = coords.EquatorialToEcliptic(t.RA, t.Dec)
		}

		targets = append(targets, t)
	}

	return targets, nil
}

// LoadStars reads a stellar-catalog CSV. Same format as LoadTargets; the
// sectors column is simply absent from catalog exports.
func LoadStars(r io.Reader, logger *slog.Logger) ([]Target, error) {
	return LoadTargets(r, logger)
}

// Join fills position and magnitude fields of targets from a stellar
// catalog keyed by TIC ID. Targets without a catalog row are left as-is.
func Join(targets []Target, stars []Target) []Target {
	byID := make(map[int64]Target, len(stars))
	for _, s := range stars {
		byID[s.TIC] = s
	}

	out := make([]Target, len(targets))
	for i, t := range targets {
		if s, ok := byID[t.TIC]; ok {
			t.RA = s.RA
			t.Dec = s.Dec
			t.Tmag = s.Tmag
			t.EclipticLon = s.EclipticLon
			t.EclipticLat = s.EclipticLat
			if t.EclipticLat == 0 && t.EclipticLon == 0 && (t.RA != 0 || t.Dec != 0) {
				t.EclipticLon, t.EclipticLat = coords.EquatorialToEcliptic(t.RA, t.Dec)
			}
		}
		out[i] = t
	}
	return out
}

// indexColumns resolves canonical column names to field positions.
func indexColumns(header []string) map[string]int {
	norm := make(map[string]int, len(header))
	for i, h := range header {
		norm[strings.ToLower(strings.TrimSpace(h))] = i
	}

	cols := make(map[string]int)
	for canonical, aliases := range columnAliases {
		for _, a := range aliases {
			if i, ok := norm[a]; ok {
				cols[canonical] = i
				break
			}
		}
	}
	return cols
}

// parseSectorList splits a list-valued cell like "1,2,5" or "1 2 5".
func parseSectorList(cell string) ([]int, error) {
	cell = strings.Trim(strings.TrimSpace(cell), "[]")
	if cell == "" {
		return nil, nil
	}
	fields := strings.FieldsFunc(cell, func(r rune) bool {
		return r == ',' || r == ';' || r == ' '
	})

	sectors := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid sector %q", f)
		}
		sectors = append(sectors, n)
	}
	return sectors, nil
}

func optFloat(rec []string, cols map[string]int, name string) float64 {
	i, ok := cols[name]
	if !ok || i >= len(rec) {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
	if err != nil {
		return 0
	}
	return v
}
