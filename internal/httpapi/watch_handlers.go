package httpapi

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"skilltrend-engine/internal/config"
	"skilltrend-engine/internal/logger"
)

type WatchStatus struct {
	LastRunAt    string `json:"last_run_at"`
	LastOkAt     string `json:"last_ok_at"`
	LastError    string `json:"last_error"`
	LastAnalyzed int    `json:"last_analyzed"`
	Running      bool   `json:"running"`
}

type WatchHandler struct {
	CfgVal *atomic.Value // config.Config
	Status *atomic.Value // httpapi.WatchStatus
	Run    func(ctx context.Context, cfg config.Config) (analyzed int, err error)
	Log    logger.Logger
}

func (h WatchHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	st, _ := h.Status.Load().(WatchStatus)
	WriteJSON(w, http.StatusOK, st)
}

// Trigger starts one watch pass in the background.
func (h WatchHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	if h.Run == nil {
		WriteError(w, r, http.StatusServiceUnavailable, "watch_disabled", "watch is not configured")
		return
	}
	if !BeginWatch(h.Status) {
		WriteJSON(w, http.StatusConflict, map[string]any{"ok": false, "msg": "already running"})
		return
	}

	go func() {
		cfg := h.CfgVal.Load().(config.Config)
		n, err := h.Run(context.Background(), cfg)
		RecordWatch(h.Status, n, err)
		if err != nil && h.Log != nil {
			h.Log.WarnObj("watch run failed", "watch_error", map[string]any{"error": err})
		}
	}()

	WriteJSON(w, http.StatusAccepted, map[string]any{"ok": true})
}

// BeginWatch marks a pass as running. It reports false when one already is;
// the caller that gets true must call RecordWatch when done.
func BeginWatch(status *atomic.Value) bool {
	for {
		cur := status.Load()
		st, _ := cur.(WatchStatus)
		if st.Running {
			return false
		}
		next := WatchStatus{
			LastRunAt: time.Now().Format(time.RFC3339),
			Running:   true,
			LastOkAt:  st.LastOkAt,
		}
		if status.CompareAndSwap(cur, next) {
			return true
		}
	}
}

// RecordWatch stores the outcome of a finished watch pass.
func RecordWatch(status *atomic.Value, analyzed int, err error) {
	now := time.Now().Format(time.RFC3339)
	next, _ := status.Load().(WatchStatus)
	next.Running = false
	next.LastRunAt = now
	next.LastAnalyzed = analyzed
	if err != nil {
		next.LastError = err.Error()
	} else {
		next.LastError = ""
		next.LastOkAt = now
	}
	status.Store(next)
}
