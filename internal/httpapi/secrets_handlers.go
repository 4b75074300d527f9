package httpapi

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"skilltrend-engine/internal/config"
	"skilltrend-engine/internal/secrets"
)

type SecretsHandler struct {
	CfgVal *atomic.Value // stores config.Config
}

type setSecretReq struct {
	Password string `json:"password"`
	APIKey   string `json:"api_key"`
}

func (h SecretsHandler) SetIMAPPassword(w http.ResponseWriter, r *http.Request) {
	var req setSecretReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	cfg := h.CfgVal.Load().(config.Config)
	if err := secrets.SetIMAPPassword(cfg, req.Password); err != nil {
		WriteError(w, r, http.StatusBadRequest, "keyring_error", "failed to store password: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetAPIKey stores the key for the configured provider. It is used from
// the next process start.
func (h SecretsHandler) SetAPIKey(w http.ResponseWriter, r *http.Request) {
	var req setSecretReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	cfg := h.CfgVal.Load().(config.Config)
	if err := secrets.SetAPIKey(cfg.Provider.Name, req.APIKey); err != nil {
		WriteError(w, r, http.StatusBadRequest, "keyring_error", "failed to store api key: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
