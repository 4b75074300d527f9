package httpapi

import "net/http"

// NewMux registers every route. Wrap it with Handler for the middleware chain.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Liveness
	hh := HealthHandler{DB: d.DB}
	mux.HandleFunc("/{$}", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Home,
	}))
	mux.HandleFunc("/ping", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Ping,
	}))
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	// Skills
	sk := SkillsHandler{Analyzer: d.Analyzer, CfgVal: d.CfgVal}
	mux.HandleFunc("/api/skills", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sk.Get,
	}))
	mux.HandleFunc("/api/skills/chart.png", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sk.Chart,
	}))

	// Usage
	uh := UsageHandler{Counter: d.Counter, Account: d.Account, CfgVal: d.CfgVal}
	mux.HandleFunc("/api/usage", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: uh.Get,
	}))

	// History
	his := HistoryHandler{DB: d.DB, Hub: d.Hub}
	mux.HandleFunc("/api/history", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: his.List,
	}))
	mux.HandleFunc("/api/history/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:    his.JobsByPath,   // /api/history/{id}/jobs
		http.MethodDelete: his.DeleteByPath, // /api/history/{id}
	}))
	mux.HandleFunc("/api/history/cleanup", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: his.Cleanup,
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
		Hub:         d.Hub,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))

	// Secrets (use cfgVal, NOT a snapshot cfg)
	sh := SecretsHandler{CfgVal: d.CfgVal}
	mux.HandleFunc("/api/secrets/imap", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.SetIMAPPassword,
	}))
	mux.HandleFunc("/api/secrets/api-key", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.SetAPIKey,
	}))

	// Watch
	wh := WatchHandler{CfgVal: d.CfgVal, Status: d.WatchStatus, Run: d.RunWatch, Log: d.Log}
	mux.HandleFunc("/api/watch/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: wh.GetStatus,
	}))
	mux.HandleFunc("/api/watch/run", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: wh.Trigger,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	return mux
}

// Handler is the full HTTP stack: routes plus the middleware chain.
func Handler(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = nopLogger()
	}
	return Chain(NewMux(d), RequestID, Recover(log), AccessLog(log), Cors)
}
