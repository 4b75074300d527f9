package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"sync/atomic"

	"skilltrend-engine/internal/config"
	"skilltrend-engine/internal/report"
)

type SkillsHandler struct {
	Analyzer Analyzer
	CfgVal   *atomic.Value // stores config.Config
}

func (h SkillsHandler) params(w http.ResponseWriter, r *http.Request, defLimit int) (role string, limit int, ok bool) {
	cfg := h.CfgVal.Load().(config.Config)

	role = strings.TrimSpace(r.URL.Query().Get("role"))
	if role == "" {
		role = cfg.App.DefaultRole
	}
	limit, ok = queryInt(r, "limit", defLimit)
	if !ok {
		WriteError(w, r, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer")
	}
	return role, limit, ok
}

// Get answers GET /api/skills?role=<r>&limit=<n>.
func (h SkillsHandler) Get(w http.ResponseWriter, r *http.Request) {
	cfg := h.CfgVal.Load().(config.Config)
	role, limit, ok := h.params(w, r, cfg.Report.TopN)
	if !ok {
		return
	}

	res, err := h.Analyzer.Analyze(r.Context(), role)
	if err != nil {
		writePipelineError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, res.Response(limit))
}

// Chart answers GET /api/skills/chart.png with a PNG bar chart.
func (h SkillsHandler) Chart(w http.ResponseWriter, r *http.Request) {
	cfg := h.CfgVal.Load().(config.Config)
	role, limit, ok := h.params(w, r, cfg.Report.ExportTopN)
	if !ok {
		return
	}

	res, err := h.Analyzer.Analyze(r.Context(), role)
	if err != nil {
		writePipelineError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := res.Chart(limit).WriteTo(w); err != nil {
		w.Header().Del("Content-Type")
		if errors.Is(err, report.ErrNothingToPlot) {
			WriteError(w, r, http.StatusNotFound, "no_skills", "no skills found for role "+role)
			return
		}
		WriteError(w, r, http.StatusInternalServerError, "render_error", err.Error())
	}
}
