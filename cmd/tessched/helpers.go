package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/rae-holcomb/tess-scheduling/internal/catalog"
	"github.com/rae-holcomb/tess-scheduling/internal/cliconfig"
	"github.com/rae-holcomb/tess-scheduling/internal/pointing"
)

// loadTable reads the pointing table named by the configuration.
func loadTable(cfg *cliconfig.Config, logger *slog.Logger) (pointing.Table, error) {
	if cfg.PointingPath == "" {
		return pointing.Table{}, fmt.Errorf("--pointing is required")
	}
	f, err := os.Open(cfg.PointingPath)
	if err != nil {
		return pointing.Table{}, fmt.Errorf("opening pointing table: %w", err)
	}
	defer f.Close()
	return pointing.Parse(f, logger)
}

// loadTargets reads the target list and, when a stellar catalog is also
// configured, joins positions and magnitudes onto it.
func loadTargets(cfg *cliconfig.Config, logger *slog.Logger) ([]catalog.Target, error) {
	if cfg.TargetsPath == "" {
		return nil, nil
	}
	f, err := os.Open(cfg.TargetsPath)
	if err != nil {
		return nil, fmt.Errorf("opening target list: %w", err)
	}
	defer f.Close()

	targets, err := catalog.LoadTargets(f, logger)
	if err != nil {
		return nil, err
	}

	if cfg.CatalogPath != "" {
		cf, err := os.Open(cfg.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("opening stellar catalog: %w", err)
		}
		defer cf.Close()

		stars, err := catalog.LoadStars(cf, logger)
		if err != nil {
			return nil, err
		}
		targets = catalog.Join(targets, stars)
	}

	return targets, nil
}

// effectiveHalfWindow resolves the coverage half-window the way the
// analysis routines do: the configured override when positive, otherwise
// half the table's mean sector spacing.
func effectiveHalfWindow(table pointing.Table, override float64) float64 {
	if override > 0 {
		return override
	}
	return table.MeanSpacing() / 2
}

// parseIntList parses "1,3,5" and range forms like "1-13" (or a mix).
func parseIntList(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if lo, hi, ok := strings.Cut(part, "-"); ok && lo != "" {
			a, err := strconv.Atoi(lo)
			if err != nil {
				return nil, fmt.Errorf("invalid range start %q", lo)
			}
			b, err := strconv.Atoi(hi)
			if err != nil {
				return nil, fmt.Errorf("invalid range end %q", hi)
			}
			if b < a {
				return nil, fmt.Errorf("descending range %q", part)
			}
			for n := a; n <= b; n++ {
				out = append(out, n)
			}
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", part)
		}
		out = append(out, n)
	}
	return out, nil
}

// parseFloatList parses "13.95,9.3".
func parseFloatList(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", part)
		}
		out = append(out, v)
	}
	return out, nil
}

// parseGridSpec parses a "min:max:step" grid specification.
func parseGridSpec(s string) (min, max, step float64, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("grid must be min:max:step, got %q", s)
	}
	vals := make([]float64, 3)
	for i, p := range parts {
		vals[i], err = strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("invalid grid component %q", p)
		}
	}
	return vals[0], vals[1], vals[2], nil
}
