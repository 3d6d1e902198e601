package pointing

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

// Parse reads a spacecraft pointing table from r and returns the validated
// sector table. The format is one line per sector:
//
//	sector  ra  dec  roll  start  end
//
// with whitespace or comma separation, times in mission days. Lines starting
// with '#' and a leading header line are skipped. Malformed rows are skipped
// with a warning log.
func Parse(r io.Reader, logger *slog.Logger) (Table, error) {
	scanner := bufio.NewScanner(r)
	var sectors []Sector
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := splitFields(line)
		if len(fields) < 6 {
			logger.Warn("skipping short pointing row", "line", lineNo, "fields", len(fields))
			continue
		}

		idx, err := strconv.Atoi(fields[0])
		if err != nil {
			// Header line ("Sector,RA,...") lands here on the first row.
			if lineNo == 1 {
				continue
			}
			logger.Warn("skipping pointing row with invalid sector index", "line", lineNo, "value", fields[0])
			continue
		}

		vals := make([]float64, 5)
		ok := true
		for i := 0; i < 5; i++ {
			v, err := strconv.ParseFloat(fields[i+1], 64)
			if err != nil {
				logger.Warn("skipping pointing row with invalid field", "line", lineNo, "field", i+1, "value", fields[i+1])
				ok = false
				break
			}
			vals[i] = v
		}
		if !ok {
			continue
		}

		s := Sector{
			Index: idx,
			RA:    vals[0],
			Dec:   vals[1],
			Roll:  vals[2],
			Start: vals[3],
			End:   vals[4],
		}
		// Optional seventh column: the base sector this entry repeats,
		// written by snapshot exports of extended tables.
		if len(fields) >= 7 {
			rep, err := strconv.Atoi(fields[6])
			if err != nil {
				logger.Warn("skipping pointing row with invalid repeat column", "line", lineNo, "value", fields[6])
				continue
			}
			s.RepeatOf = rep
		}
		if s.End <= s.Start {
			logger.Warn("skipping pointing row with non-positive duration", "line", lineNo, "sector", idx)
			continue
		}
		s.Midpoint = (s.Start + s.End) / 2

		sectors = append(sectors, s)
	}
	if err := scanner.Err(); err != nil {
		return Table{}, fmt.Errorf("reading pointing table: %w", err)
	}

	table, err := NewTable(sectors)
	if err != nil {
		return Table{}, fmt.Errorf("parsing pointing table: %w", err)
	}
	return table, nil
}

// splitFields splits a row on commas or whitespace, whichever the file uses.
func splitFields(line string) []string {
	if strings.Contains(line, ",") {
		parts := strings.Split(line, ",")
		fields := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				fields = append(fields, p)
			}
		}
		return fields
	}
	return strings.Fields(line)
}
