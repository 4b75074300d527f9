package httpapi

import (
	"database/sql"
	"net/http"
)

type HealthHandler struct {
	DB *sql.DB
}

func (h HealthHandler) Home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("skilltrend engine is running\n"))
}

func (h HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("pong\n"))
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	out := map[string]any{"ok": true}
	if h.DB != nil {
		if err := h.DB.PingContext(r.Context()); err != nil {
			out["ok"] = false
			out["db"] = err.Error()
			WriteJSON(w, http.StatusServiceUnavailable, out)
			return
		}
		out["db"] = "ok"
	}
	WriteJSON(w, http.StatusOK, out)
}
