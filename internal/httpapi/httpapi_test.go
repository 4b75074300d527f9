package httpapi

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skilltrend-engine/internal/analyze"
	"skilltrend-engine/internal/config"
	"skilltrend-engine/internal/domain"
	"skilltrend-engine/internal/events"
	"skilltrend-engine/internal/skills"
	"skilltrend-engine/internal/source"
	"skilltrend-engine/internal/store"
)

type stubFetcher struct {
	jobs map[string][]domain.JobRecord
	err  error
}

func (s stubFetcher) Name() string { return "stub" }

func (s stubFetcher) Fetch(_ context.Context, role string) ([]domain.JobRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.jobs[role], nil
}

type stubCounter struct{ n int64 }

func (c *stubCounter) Read(context.Context) (int64, error)      { return c.n, nil }
func (c *stubCounter) Increment(context.Context) (int64, error) { c.n++; return c.n, nil }
func (c *stubCounter) Close() error                             { return nil }

type stubAccount struct {
	usage source.AccountUsage
	err   error
}

func (a stubAccount) Account(context.Context, int) (source.AccountUsage, error) {
	return a.usage, a.err
}

type fixture struct {
	handler http.Handler
	deps    Deps
	db      *store.DB
}

func newFixture(t *testing.T, f stubFetcher, mutate func(*Deps)) fixture {
	t.Helper()

	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.Default()
	cfgVal := &atomic.Value{}
	cfgVal.Store(cfg)
	status := &atomic.Value{}
	status.Store(WatchStatus{})

	d := Deps{
		DB:          db.Pool,
		Hub:         events.NewHub(),
		Analyzer:    analyze.NewService(f, skills.DefaultVocabulary(), analyze.Options{}),
		Counter:     &stubCounter{n: 3},
		CfgVal:      cfgVal,
		WatchStatus: status,
		UserCfgPath: filepath.Join(t.TempDir(), "config.yml"),
	}
	d.LoadCfg = func() (config.Config, error) { return config.Load(d.UserCfgPath) }
	if mutate != nil {
		mutate(&d)
	}
	return fixture{handler: Handler(d), deps: d, db: db}
}

func (f fixture) do(t *testing.T, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func exampleFetcher() stubFetcher {
	return stubFetcher{jobs: map[string][]domain.JobRecord{
		"dotnet": {
			{Title: "A", Description: "Looking for a Python developer with SQL and Docker experience"},
			{Title: "B", Description: "Python and Kubernetes required"},
		},
	}}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) APIError {
	t.Helper()
	var e APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	return e
}

func TestSkills_DefaultRoleAndOrder(t *testing.T) {
	f := newFixture(t, exampleFetcher(), nil)

	rec := f.do(t, http.MethodGet, "/api/skills", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	body := rec.Body.String()
	assert.Contains(t, body, `"top_skills":{"python":2,`)

	var resp struct {
		Role      string         `json:"role"`
		TotalJobs int            `json:"total_jobs"`
		TopSkills map[string]int `json:"top_skills"`
		Timestamp string         `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "dotnet", resp.Role)
	assert.Equal(t, 2, resp.TotalJobs)
	assert.Equal(t, map[string]int{"python": 2, "sql": 1, "docker": 1, "kubernetes": 1}, resp.TopSkills)
	_, err := time.Parse(time.RFC3339, resp.Timestamp)
	assert.NoError(t, err)
}

func TestSkills_Limit(t *testing.T) {
	f := newFixture(t, exampleFetcher(), nil)

	rec := f.do(t, http.MethodGet, "/api/skills?role=dotnet&limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"top_skills":{"python":2}`)

	rec = f.do(t, http.MethodGet, "/api/skills?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_limit", decodeError(t, rec).Error.Code)
}

func TestSkills_ZeroJobs(t *testing.T) {
	f := newFixture(t, stubFetcher{}, nil)
	rec := f.do(t, http.MethodGet, "/api/skills?role=cobol", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_jobs":0`)
	assert.Contains(t, rec.Body.String(), `"top_skills":{}`)
}

func TestSkills_UpstreamFailure(t *testing.T) {
	f := newFixture(t, stubFetcher{err: &source.UpstreamError{Provider: "stub", StatusCode: 429}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/skills?role=go", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	e := decodeError(t, rec)
	assert.Equal(t, "upstream_error", e.Error.Code)
	assert.Equal(t, "abc", e.Error.RequestID)
	assert.Contains(t, e.Error.Message, "429")
}

func TestSkills_Chart(t *testing.T) {
	f := newFixture(t, exampleFetcher(), nil)

	rec := f.do(t, http.MethodGet, "/api/skills/chart.png?limit=3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\x89PNG"))

	rec = f.do(t, http.MethodGet, "/api/skills/chart.png?role=cobol", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no_skills", decodeError(t, rec).Error.Code)
}

func TestUsage(t *testing.T) {
	t.Run("local only", func(t *testing.T) {
		f := newFixture(t, stubFetcher{}, nil)
		rec := f.do(t, http.MethodGet, "/api/usage", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"provider":"serpapi","total_searches":3,"account_type":"free","search_limit":100,"local_calls":3}`, rec.Body.String())
	})

	t.Run("with account", func(t *testing.T) {
		f := newFixture(t, stubFetcher{}, func(d *Deps) {
			d.Account = stubAccount{usage: source.AccountUsage{TotalSearches: 40, AccountType: "Developer", SearchLimit: 5000}}
		})
		rec := f.do(t, http.MethodGet, "/api/usage", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"provider":"serpapi","total_searches":40,"account_type":"Developer","search_limit":5000,"local_calls":3}`, rec.Body.String())
	})

	t.Run("account failure", func(t *testing.T) {
		f := newFixture(t, stubFetcher{}, func(d *Deps) {
			d.Account = stubAccount{err: &source.UpstreamError{Provider: "serpapi", Err: errors.New("down")}}
		})
		rec := f.do(t, http.MethodGet, "/api/usage", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "upstream_error", decodeError(t, rec).Error.Code)
	})
}

func TestHistory(t *testing.T) {
	f := newFixture(t, stubFetcher{}, nil)
	ctx := context.Background()

	id, err := store.SaveSnapshot(ctx, f.db.Pool, domain.Snapshot{
		Role: "go", Provider: "stub", TotalJobs: 1,
		Skills: []domain.SkillCount{{Skill: "docker", Count: 1}},
	}, []store.JobRow{{Title: "Go Dev", Skills: []string{"docker"}, Tags: []string{"Cloud"}}})
	require.NoError(t, err)

	rec := f.do(t, http.MethodGet, "/api/history?role=go", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var snaps []domain.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snaps))
	require.Len(t, snaps, 1)
	assert.Equal(t, id, snaps[0].ID)

	rec = f.do(t, http.MethodGet, "/api/history/"+itoa(id)+"/jobs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Go Dev"`)

	rec = f.do(t, http.MethodGet, "/api/history/abc/jobs", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	sub := f.deps.Hub.Subscribe()
	defer f.deps.Hub.Unsubscribe(sub)

	rec = f.do(t, http.MethodDelete, "/api/history/"+itoa(id), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, <-sub, events.TypeSnapshotDeleted)

	rec = f.do(t, http.MethodDelete, "/api/history/"+itoa(id), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHistory_CleanupIsLoopbackOnly(t *testing.T) {
	f := newFixture(t, stubFetcher{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/history/cleanup?days=30", nil)
	req.RemoteAddr = "192.0.2.10:4567"
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/history/cleanup?days=30", nil)
	req.RemoteAddr = "127.0.0.1:4567"
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"deleted":0}`, rec.Body.String())
}

func TestLivenessRoutes(t *testing.T) {
	f := newFixture(t, stubFetcher{}, nil)

	rec := f.do(t, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "running")

	rec = f.do(t, http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"db":"ok"}`, rec.Body.String())

	rec = f.do(t, http.MethodPost, "/ping", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "method_not_allowed", decodeError(t, rec).Error.Code)
}

func TestCors_Preflight(t *testing.T) {
	f := newFixture(t, stubFetcher{}, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/skills", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecover(t *testing.T) {
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), RequestID, Recover(nopLogger()))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal_error", decodeError(t, rec).Error.Code)
}

func TestConfig_GetPutValidate(t *testing.T) {
	f := newFixture(t, stubFetcher{}, nil)

	rec := f.do(t, http.MethodGet, "/config", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var cfg config.Config
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	cfg.App.DefaultRole = "golang"
	b, err := json.Marshal(cfg)
	require.NoError(t, err)

	rec = f.do(t, http.MethodPut, "/config", string(b))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "golang", f.deps.CfgVal.Load().(config.Config).App.DefaultRole)

	cfg.Provider.Name = "nope"
	b, _ = json.Marshal(cfg)
	rec = f.do(t, http.MethodPut, "/config", string(b))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "provider.name")

	rec = f.do(t, http.MethodPut, "/config", `{"nope":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/config/validate", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var vr config.Validation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &vr))
	assert.True(t, vr.OK())
}

func TestWatch_Trigger(t *testing.T) {
	done := make(chan struct{})
	f := newFixture(t, stubFetcher{}, func(d *Deps) {
		d.RunWatch = func(ctx context.Context, cfg config.Config) (int, error) {
			defer close(done)
			return 2, nil
		}
	})

	rec := f.do(t, http.MethodPost, "/api/watch/run", "")
	require.Equal(t, http.StatusAccepted, rec.Code)
	<-done

	require.Eventually(t, func() bool {
		st := f.deps.WatchStatus.Load().(WatchStatus)
		return !st.Running && st.LastAnalyzed == 2 && st.LastOkAt != ""
	}, time.Second, 10*time.Millisecond)

	rec = f.do(t, http.MethodGet, "/api/watch/status", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"last_analyzed":2`)
}

func TestWatch_ConcurrentTriggersStartOnePass(t *testing.T) {
	release := make(chan struct{})
	var runs atomic.Int32
	f := newFixture(t, stubFetcher{}, func(d *Deps) {
		d.RunWatch = func(ctx context.Context, cfg config.Config) (int, error) {
			runs.Add(1)
			<-release
			return 1, nil
		}
	})

	const n = 50
	var accepted, conflicted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			switch f.do(t, http.MethodPost, "/api/watch/run", "").Code {
			case http.StatusAccepted:
				accepted.Add(1)
			case http.StatusConflict:
				conflicted.Add(1)
			}
		}()
	}
	wg.Wait()
	close(release)

	assert.Equal(t, int32(1), accepted.Load())
	assert.Equal(t, int32(n-1), conflicted.Load())
	require.Eventually(t, func() bool {
		return !f.deps.WatchStatus.Load().(WatchStatus).Running
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())
}

func TestBeginWatch(t *testing.T) {
	var status atomic.Value
	require.True(t, BeginWatch(&status))
	assert.False(t, BeginWatch(&status))

	RecordWatch(&status, 3, nil)
	st := status.Load().(WatchStatus)
	assert.False(t, st.Running)
	assert.Equal(t, 3, st.LastAnalyzed)

	require.True(t, BeginWatch(&status))
	st = status.Load().(WatchStatus)
	assert.Equal(t, 0, st.LastAnalyzed)
	assert.NotEmpty(t, st.LastOkAt)
}

func TestWatch_Disabled(t *testing.T) {
	f := newFixture(t, stubFetcher{}, nil)
	rec := f.do(t, http.MethodPost, "/api/watch/run", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func itoa(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func TestEvents_StreamsHubMessages(t *testing.T) {
	f := newFixture(t, exampleFetcher(), nil)
	srv := httptest.NewServer(f.handler)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	require.Eventually(t, func() bool { return f.deps.Hub.Subscribers() == 1 }, time.Second, 5*time.Millisecond)
	f.deps.Hub.Emit("", events.TypeAnalysisCompleted, events.AnalysisCompleted{Role: "go"})

	sc := bufio.NewScanner(resp.Body)
	var sawPing, sawDone bool
	for !(sawPing && sawDone) && sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "data: ") {
			sawPing = sawPing || strings.Contains(line, `"type":"ping"`)
			sawDone = sawDone || strings.Contains(line, `"type":"analysis_completed"`)
		}
	}
	assert.True(t, sawPing)
	assert.True(t, sawDone)
}
