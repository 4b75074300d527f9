package httpapi

import (
	"database/sql"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"skilltrend-engine/internal/events"
	"skilltrend-engine/internal/store"
)

type HistoryHandler struct {
	DB  *sql.DB
	Hub *events.Hub
}

func (h HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(r, "limit", 50)
	if !ok {
		WriteError(w, r, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer")
		return
	}
	snaps, err := store.ListSnapshots(r.Context(), h.DB, store.ListSnapshotsOpts{
		Role:  r.URL.Query().Get("role"),
		Limit: limit,
	})
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, snaps)
}

// historyID parses /api/history/{id}[/suffix].
func historyID(path, suffix string) (int64, bool) {
	rest := strings.TrimPrefix(path, "/api/history/")
	if suffix != "" {
		var ok bool
		rest, ok = strings.CutSuffix(rest, suffix)
		if !ok {
			return 0, false
		}
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (h HistoryHandler) JobsByPath(w http.ResponseWriter, r *http.Request) {
	id, ok := historyID(r.URL.Path, "/jobs")
	if !ok {
		WriteError(w, r, http.StatusNotFound, "not_found", "expected /api/history/{id}/jobs")
		return
	}
	jobs, err := store.ListSnapshotJobs(r.Context(), h.DB, id)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	if jobs == nil {
		jobs = []store.JobRow{}
	}
	WriteJSON(w, http.StatusOK, jobs)
}

func (h HistoryHandler) DeleteByPath(w http.ResponseWriter, r *http.Request) {
	id, ok := historyID(r.URL.Path, "")
	if !ok {
		WriteError(w, r, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	found, err := store.DeleteSnapshot(r.Context(), h.DB, id)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	if !found {
		WriteError(w, r, http.StatusNotFound, "not_found", "snapshot not found")
		return
	}

	h.Hub.Emit(RequestIDFrom(r.Context()), events.TypeSnapshotDeleted, map[string]any{"id": id})
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "id": id})
}

// Cleanup drops snapshots older than ?days= (default 90). Loopback only.
func (h HistoryHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if ip := net.ParseIP(host); ip == nil || !ip.IsLoopback() {
		WriteError(w, r, http.StatusForbidden, "forbidden", "cleanup is only allowed from localhost")
		return
	}

	days, ok := queryInt(r, "days", 90)
	if !ok || days == 0 {
		WriteError(w, r, http.StatusBadRequest, "invalid_days", "days must be a positive integer")
		return
	}

	n, err := store.CleanupOldSnapshots(r.Context(), h.DB, time.Duration(days)*24*time.Hour)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "deleted": n})
}
