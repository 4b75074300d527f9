package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skilltrend-engine/internal/config"
	"skilltrend-engine/internal/httpclient"
)

type memCounter struct {
	n   atomic.Int64
	err error
}

func (m *memCounter) Increment(context.Context) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.n.Add(1), nil
}

func TestCounting_IncrementsBeforeEveryCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := &memCounter{}
	client := Counting(httpclient.NewRestyClient(time.Second), c)

	for i := 0; i < 3; i++ {
		_, err := client.Get(context.Background(), srv.URL, nil)
		require.NoError(t, err)
	}
	assert.EqualValues(t, 3, c.n.Load())
}

func TestCounting_CounterFailureStopsRequest(t *testing.T) {
	var hit atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit.Store(true)
	}))
	defer srv.Close()

	client := Counting(httpclient.NewRestyClient(time.Second), &memCounter{err: errors.New("disk full")})
	_, err := client.Get(context.Background(), srv.URL, nil)
	require.Error(t, err)
	assert.False(t, hit.Load())
}

func TestNew_SerpAPIAccountIsNotCounted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/account" {
			_, _ = w.Write([]byte(`{"total_searches":7}`))
			return
		}
		_, _ = w.Write([]byte(`{"jobs_results":[]}`))
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Provider.BaseURL = srv.URL
	counter := &memCounter{}

	f, err := New(cfg, Deps{Client: httpclient.NewRestyClient(time.Second), Counter: counter, APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "serpapi", f.Name())

	_, err = f.Fetch(context.Background(), "go")
	require.NoError(t, err)

	acc, ok := f.(AccountReader)
	require.True(t, ok)
	u, err := acc.Account(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, 7, u.TotalSearches)
	assert.EqualValues(t, 1, counter.n.Load())
}

func TestNew_Providers(t *testing.T) {
	cfg := config.Default()

	cfg.Provider.Name = config.ProviderJSearch
	f, err := New(cfg, Deps{})
	require.NoError(t, err)
	assert.Equal(t, "jsearch", f.Name())

	cfg.Provider.Name = config.ProviderMailbox
	f, err = New(cfg, Deps{})
	require.NoError(t, err)
	assert.Equal(t, "mailbox", f.Name())

	cfg.Provider.Name = "indeed"
	_, err = New(cfg, Deps{})
	var cerr *config.ConfigError
	assert.ErrorAs(t, err, &cerr)
}

func TestSearchQuery(t *testing.T) {
	assert.Equal(t, "dotnet developer", SearchQuery(" dotnet ", "developer"))
	assert.Equal(t, "dotnet", SearchQuery("dotnet", ""))
	assert.Equal(t, "developer", SearchQuery("", "developer"))
}
