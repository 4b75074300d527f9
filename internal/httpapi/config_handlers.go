package httpapi

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"slices"
	"sync/atomic"

	"skilltrend-engine/internal/config"
	"skilltrend-engine/internal/events"
)

type ConfigHandler struct {
	CfgVal      *atomic.Value // stores config.Config
	UserCfgPath string
	LoadCfg     func() (config.Config, error)
	Hub         *events.Hub
}

type configPutResponse struct {
	Config   config.Config `json:"config"`
	Warnings []string      `json:"warnings,omitempty"`
	// Restart lists changed sections that the running server picks up
	// only after a restart.
	Restart []string `json:"restart_required,omitempty"`
}

func (h ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.CfgVal.Load().(config.Config))
}

// Put replaces the whole config. The saved file is re-read so env overrides
// keep winning over what the client sent.
func (h ConfigHandler) Put(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()

	var incoming config.Config
	if err := dec.Decode(&incoming); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if dec.More() {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "trailing data")
		return
	}

	prev := h.CfgVal.Load().(config.Config)
	// The key is never sent to clients, so keep the one in memory.
	incoming.Provider.APIKey = prev.Provider.APIKey

	normalized, vr := config.NormalizeAndValidate(incoming)
	if !vr.OK() {
		WriteJSON(w, http.StatusBadRequest, vr)
		return
	}
	if err := config.SaveAtomic(h.UserCfgPath, normalized); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "save_failed", err.Error())
		return
	}

	saved, err := h.LoadCfg()
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "reload_failed", "saved but reload failed: "+err.Error())
		return
	}
	h.CfgVal.Store(saved)

	restart := restartSections(prev, saved)
	h.Hub.Emit(RequestIDFrom(r.Context()), events.TypeConfigUpdated, map[string]any{"restart_required": restart})
	WriteJSON(w, http.StatusOK, configPutResponse{Config: saved, Warnings: vr.Warnings, Restart: restart})
}

// restartSections names the sections that are wired once at startup.
func restartSections(prev, next config.Config) []string {
	var out []string
	if prev.App.Addr != next.App.Addr || prev.App.DataDir != next.App.DataDir {
		out = append(out, "app")
	}
	if prev.Provider != next.Provider || !slices.Equal(prev.Greenhouse.Boards, next.Greenhouse.Boards) {
		out = append(out, "provider")
	}
	if prev.Mailbox != next.Mailbox {
		out = append(out, "mailbox")
	}
	if prev.Usage.Backend != next.Usage.Backend || prev.Usage.Path != next.Usage.Path {
		out = append(out, "usage")
	}
	if !slices.Equal(prev.Vocabulary.TechKeywords, next.Vocabulary.TechKeywords) ||
		!slices.Equal(prev.Vocabulary.Stopwords, next.Vocabulary.Stopwords) {
		out = append(out, "vocabulary")
	}
	if !slices.EqualFunc(prev.Tagging.Rules, next.Tagging.Rules, func(a, b config.Rule) bool {
		return a.Tag == b.Tag && slices.Equal(a.Any, b.Any)
	}) {
		out = append(out, "tagging")
	}
	if prev.Watch.IntervalMinutes != next.Watch.IntervalMinutes {
		out = append(out, "watch")
	}
	return out
}

func (h ConfigHandler) Path(w http.ResponseWriter, r *http.Request) {
	abs, _ := filepath.Abs(h.UserCfgPath)
	WriteJSON(w, http.StatusOK, map[string]any{"path": abs})
}

func (h ConfigHandler) Validate(w http.ResponseWriter, r *http.Request) {
	_, vr := config.NormalizeAndValidate(h.CfgVal.Load().(config.Config))
	WriteJSON(w, http.StatusOK, vr)
}
