package httpapi

import (
	"net/http"
	"sync/atomic"

	"skilltrend-engine/internal/config"
	"skilltrend-engine/internal/source"
	"skilltrend-engine/internal/usage"
)

type UsageHandler struct {
	Counter usage.CounterStore
	Account source.AccountReader
	CfgVal  *atomic.Value // stores config.Config
}

type usageResponse struct {
	Provider      string `json:"provider"`
	TotalSearches int    `json:"total_searches"`
	AccountType   string `json:"account_type"`
	SearchLimit   int    `json:"search_limit"`
	LocalCalls    int64  `json:"local_calls"`
}

// Get reports the provider's account quota next to the local call counter.
// Providers without an account API report the local counter only.
func (h UsageHandler) Get(w http.ResponseWriter, r *http.Request) {
	cfg := h.CfgVal.Load().(config.Config)

	var local int64
	if h.Counter != nil {
		n, err := h.Counter.Read(r.Context())
		if err != nil {
			WriteError(w, r, http.StatusInternalServerError, "usage_error", err.Error())
			return
		}
		local = n
	}

	out := usageResponse{
		Provider:      cfg.Provider.Name,
		TotalSearches: int(local),
		AccountType:   "free",
		SearchLimit:   cfg.Usage.SearchLimit,
		LocalCalls:    local,
	}
	if h.Account != nil {
		acc, err := h.Account.Account(r.Context(), cfg.Usage.SearchLimit)
		if err != nil {
			writePipelineError(w, r, err)
			return
		}
		out.TotalSearches = acc.TotalSearches
		out.AccountType = acc.AccountType
		out.SearchLimit = acc.SearchLimit
	}
	WriteJSON(w, http.StatusOK, out)
}
