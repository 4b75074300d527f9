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

func TestJSearch_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-rapidapi-key"))
		assert.Equal(t, "jsearch.p.rapidapi.com", r.Header.Get("x-rapidapi-host"))
		q := r.URL.Query()
		assert.Equal(t, ".NET developer", q.Get("query"))
		assert.Equal(t, "us", q.Get("country"))
		assert.Equal(t, "1", q.Get("page"))
		assert.Equal(t, "3", q.Get("num_pages"))
		_, _ = w.Write([]byte(`{"status":"OK","data":[
			{"job_title":"Backend Engineer","job_description":"Go and Docker","employer_name":"Acme","job_city":"Austin","job_state":"TX","job_country":"US"},
			{"job_title":"Second"},
			{"job_title":"Third"}
		]}`))
	}))
	defer srv.Close()

	j := NewJSearch(JSearchConfig{
		BaseURL:     srv.URL,
		APIKey:      "secret",
		QuerySuffix: "developer",
		Country:     "us",
		MaxResults:  2,
		NumPages:    3,
	}, httpclient.NewRestyClient(time.Second))

	jobs, err := j.Fetch(context.Background(), ".NET")
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "Backend Engineer", jobs[0].Title)
	assert.Equal(t, "Go and Docker", jobs[0].Description)
	assert.Equal(t, "Austin, TX, US", jobs[0].Location)
	assert.Equal(t, "jsearch", jobs[0].Source)
}

func TestJSearch_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ERROR","error":{"message":"quota exceeded"}}`))
	}))
	defer srv.Close()

	j := NewJSearch(JSearchConfig{BaseURL: srv.URL, APIKey: "k"}, httpclient.NewRestyClient(time.Second))
	_, err := j.Fetch(context.Background(), "go")
	var uerr *UpstreamError
	require.ErrorAs(t, err, &uerr)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestJSearch_EmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK","data":[]}`))
	}))
	defer srv.Close()

	j := NewJSearch(JSearchConfig{BaseURL: srv.URL}, httpclient.NewRestyClient(time.Second))
	jobs, err := j.Fetch(context.Background(), "go")
	require.NoError(t, err)
	assert.Empty(t, jobs)
}
