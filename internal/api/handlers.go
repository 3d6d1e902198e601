package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rae-holcomb/tess-scheduling/internal/alias"
	"github.com/rae-holcomb/tess-scheduling/internal/catalog"
	"github.com/rae-holcomb/tess-scheduling/internal/pointing"
	"github.com/rae-holcomb/tess-scheduling/internal/strategy"
	"github.com/rae-holcomb/tess-scheduling/internal/transit"
)

// handleSectors returns the currently loaded pointing table.
func (s *Server) handleSectors(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Get()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "no pointing table loaded")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"source":       snap.Source,
		"loaded_at":    snap.LoadedAt.UTC().Format(time.RFC3339),
		"mean_spacing": snap.Table.MeanSpacing(),
		"sectors":      snap.Table.Sectors(),
	})
}

// handleTargets returns the loaded target records.
func (s *Server) handleTargets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(s.targets),
		"targets": s.targets,
	})
}

// handleCoverage computes per-sector coverage for a period/epoch or
// period/phase pair given as query parameters.
func (s *Server) handleCoverage(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Get()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "no pointing table loaded")
		return
	}

	q := r.URL.Query()
	period, err := strconv.ParseFloat(q.Get("period"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "period is required and must be a number")
		return
	}

	var sig transit.Signal
	switch {
	case q.Get("epoch") != "":
		epoch, err := strconv.ParseFloat(q.Get("epoch"), 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid epoch")
			return
		}
		sig = transit.Signal{Period: period, Epoch: epoch}
	case q.Get("phase") != "":
		phase, err := strconv.ParseFloat(q.Get("phase"), 64)
		if err != nil || phase < 0 || phase >= 1 {
			writeError(w, http.StatusBadRequest, "phase must be a number in [0,1)")
			return
		}
		start, _ := snap.Table.Span()
		sig = transit.SignalAtPhase(period, phase, start)
	default:
		writeError(w, http.StatusBadRequest, "epoch or phase is required")
		return
	}

	var halfWindow float64
	if v := q.Get("window"); v != "" {
		halfWindow, err = strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid window")
			return
		}
	}

	covered, err := transit.Coverage(sig, snap.Table, halfWindow)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	indices := make([]int, 0, len(covered))
	for i, c := range covered {
		if c {
			indices = append(indices, snap.Table.At(i).Index)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"signal":          sig,
		"covered":         covered,
		"covered_sectors": indices,
	})
}

// aliasRequest is the body of POST /api/v1/aliases.
type aliasRequest struct {
	Period        float64   `json:"period"`
	Epoch         float64   `json:"epoch"`
	Aliases       []float64 `json:"aliases"`
	Repeats       []int     `json:"repeats"`
	TargetSectors []int     `json:"target_sectors"`
	Match         string    `json:"match"` // "field" (default) or "hemisphere"
	Window        float64   `json:"window"`
}

// handleAliases applies an extended-mission strategy and reports which
// alias periods it rules out.
func (s *Server) handleAliases(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Get()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "no pointing table loaded")
		return
	}

	var req aliasRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Period <= 0 {
		writeError(w, http.StatusBadRequest, "period must be positive")
		return
	}

	strat := strategy.Strategy{Repeats: req.Repeats}

	var added []pointing.Sector
	var err error
	if len(req.TargetSectors) > 0 {
		match := strategy.MatchField
		if req.Match == "hemisphere" {
			match = strategy.MatchHemisphere
		}
		tgt := catalog.Target{Sectors: req.TargetSectors}
		added, err = strategy.Apply(snap.Table, strat, tgt, match)
	} else {
		added, err = strategy.Extend(snap.Table, strat)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	set, err := alias.NewSet(req.Epoch, req.Aliases)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	halfWindow := req.Window
	if halfWindow <= 0 {
		halfWindow = snap.Table.MeanSpacing() / 2
	}

	truth := transit.Signal{Period: req.Period, Epoch: req.Epoch}
	ruled, err := alias.Resolve(truth, set, added, halfWindow)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	realized := make([]int, len(added))
	for i, sec := range added {
		realized[i] = sec.Index
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"realized_sectors": realized,
		"candidates":       set.Candidates,
		"newly_ruled_out":  ruled,
		"remaining":        set.Remaining(),
	})
}

// handleSweeps lists recorded sweep runs from the result store.
func (s *Server) handleSweeps(w http.ResponseWriter, r *http.Request) {
	if s.results == nil {
		writeError(w, http.StatusNotFound, "no result database configured")
		return
	}
	metas, err := s.results.Sweeps(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sweeps": metas})
}

// handleSweepRows returns all rows of one sweep.
func (s *Server) handleSweepRows(w http.ResponseWriter, r *http.Request) {
	if s.results == nil {
		writeError(w, http.StatusNotFound, "no result database configured")
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid sweep id")
		return
	}
	rows, err := s.results.Rows(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": rows})
}
