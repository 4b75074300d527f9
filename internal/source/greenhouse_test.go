package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skilltrend-engine/internal/httpclient"
)

func TestGreenhouse_FiltersByRole(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("content"))
		switch r.URL.Path {
		case "/v1/boards/acme/jobs":
			_, _ = w.Write([]byte(`{"jobs":[
				{"title":"Senior Python Engineer","company_name":"Acme Inc","content":"&lt;p&gt;We use Django and Docker&lt;/p&gt;","location":{"name":"Remote"}},
				{"title":"Account Executive","content":"&lt;p&gt;Sell things&lt;/p&gt;"}
			]}`))
		case "/v1/boards/beta/jobs":
			_, _ = w.Write([]byte(`{"jobs":[
				{"title":"Data Engineer","content":"Spark and python pipelines"}
			]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	g := NewGreenhouse(GreenhouseConfig{BaseURL: srv.URL, Boards: []string{"acme", "beta"}}, httpclient.NewRestyClient(time.Second))
	jobs, err := g.Fetch(context.Background(), "Python")
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	assert.Equal(t, "Senior Python Engineer", jobs[0].Title)
	assert.Equal(t, "<p>We use Django and Docker</p>", jobs[0].Description)
	assert.Equal(t, "Acme Inc", jobs[0].Company)
	assert.Equal(t, "Remote", jobs[0].Location)
	assert.Equal(t, "greenhouse", jobs[0].Source)

	assert.Equal(t, "Data Engineer", jobs[1].Title)
	assert.Equal(t, "beta", jobs[1].Company)
}

func TestGreenhouse_BoardFailureFailsFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/boards/gone/jobs" {
			http.Error(w, `{"status":404}`, http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"jobs":[{"title":"Go Developer"}]}`))
	}))
	defer srv.Close()

	g := NewGreenhouse(GreenhouseConfig{BaseURL: srv.URL, Boards: []string{"ok", "gone"}}, httpclient.NewRestyClient(time.Second))
	jobs, err := g.Fetch(context.Background(), "go")
	assert.Nil(t, jobs)

	var uerr *UpstreamError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, http.StatusNotFound, uerr.StatusCode)
}

func TestGreenhouse_MaxResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jobs":[{"title":"Go 1"},{"title":"Go 2"},{"title":"Go 3"}]}`))
	}))
	defer srv.Close()

	g := NewGreenhouse(GreenhouseConfig{BaseURL: srv.URL, Boards: []string{"a", "b"}, MaxResults: 2}, httpclient.NewRestyClient(time.Second))
	jobs, err := g.Fetch(context.Background(), "go")
	require.NoError(t, err)
	assert.Len(t, jobs, 2)
}
