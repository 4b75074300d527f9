package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"skilltrend-engine/internal/analyze"
	"skilltrend-engine/internal/config"
	"skilltrend-engine/internal/events"
	"skilltrend-engine/internal/httpapi"
	"skilltrend-engine/internal/scheduler"
	"skilltrend-engine/internal/store"
)

const dbFile = "skilltrend.db"

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the optional watch scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.App.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides app.addr)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg

	dbPath := filepath.Join(cfg.App.DataDir, dbFile)
	db, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	p, err := a.buildPipeline(cfg, db)
	if err != nil {
		return err
	}
	defer p.Close()

	hub := events.NewHub()
	svc := a.newService(cfg, p.fetcher, snapshotRecorder(db, hub, a))

	var cfgVal atomic.Value
	cfgVal.Store(cfg)
	var watchStatus atomic.Value
	watchStatus.Store(httpapi.WatchStatus{})

	runWatch := func(ctx context.Context, cfg config.Config) (int, error) {
		res, err := svc.AnalyzeMany(ctx, rolesOrDefault(cfg.Watch.Roles, cfg))
		if err != nil {
			hub.Emit("", events.TypeAnalysisFailed, map[string]any{"error": err.Error()})
			return 0, err
		}
		return len(res.Results), nil
	}

	handler := httpapi.Handler(httpapi.Deps{
		DB:          db.Pool,
		Hub:         hub,
		Log:         a.log,
		Analyzer:    svc,
		Counter:     p.counter,
		Account:     p.account,
		CfgVal:      &cfgVal,
		WatchStatus: &watchStatus,
		UserCfgPath: a.cfgPath,
		LoadCfg:     a.reload,
		RunWatch:    runWatch,
	})

	if cfg.Watch.IntervalMinutes > 0 && len(cfg.Watch.Roles) > 0 {
		go scheduler.Every(ctx, time.Duration(cfg.Watch.IntervalMinutes)*time.Minute, "watch", a.log, func(ctx context.Context) error {
			if !httpapi.BeginWatch(&watchStatus) {
				return nil
			}

			n, err := runWatch(ctx, cfgVal.Load().(config.Config))
			httpapi.RecordWatch(&watchStatus, n, err)
			return err
		})
	}

	ln, err := net.Listen("tcp", cfg.App.Addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	a.log.InfoObj("engine listening", "server_start", map[string]any{
		"addr":     "http://" + ln.Addr().String(),
		"db":       dbPath,
		"provider": p.fetcher.Name(),
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.log.InfoObj("shutting down", "server_stop", nil)
	return srv.Shutdown(shutdownCtx)
}

// snapshotRecorder stores every finished analysis and announces it on the hub.
func snapshotRecorder(db *store.DB, hub *events.Hub, a *app) func(context.Context, analyze.Result) {
	return func(ctx context.Context, r analyze.Result) {
		// Outlives the request.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		id, err := store.SaveSnapshot(ctx, db.Pool, r.Snapshot(), r.JobRows())
		if err != nil {
			a.log.ErrorObj("save snapshot failed", "snapshot_error", map[string]any{"role": r.Role, "error": err})
		}

		payload := events.AnalysisCompleted{
			Role:       r.Role,
			Provider:   r.Provider,
			TotalJobs:  len(r.Jobs),
			SnapshotID: id,
		}
		if top := r.Table.Top(1); len(top) > 0 {
			payload.TopSkill = top[0].Skill
		}
		hub.Emit("", events.TypeAnalysisCompleted, payload)
	}
}
