package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"skilltrend-engine/internal/config"
	"skilltrend-engine/internal/secrets"
)

func fakeSerpAPI(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/search.json" {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "sk-test", r.URL.Query().Get("api_key"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jobs_results": []map[string]string{
				{"title": "A", "description": "Looking for a Python developer with SQL and Docker experience"},
				{"title": "B", "description": "Python and Kubernetes required"},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeCommand_EndToEnd(t *testing.T) {
	srv, calls := fakeSerpAPI(t)
	dir := t.TempDir()
	t.Setenv("SERPAPI_KEY", "sk-test")
	t.Setenv("SKILLTREND_PROVIDER_BASE_URL", srv.URL)

	out, err := run(t, "--data-dir", dir, "--log-level", "error", "analyze", "dotnet")
	require.NoError(t, err, out)

	assert.Contains(t, out, "dotnet (2 jobs)")
	assert.Regexp(t, `1\.\s+python\s+2`, out)
	assert.EqualValues(t, 1, calls.Load())

	csvB, err := os.ReadFile(filepath.Join(dir, "data", "cleaned_job_skills.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(csvB)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Job Title,Skills,Tags", lines[0])

	png, err := os.ReadFile(filepath.Join(dir, "visuals", "top_skills_chart.png"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	counter, err := os.ReadFile(filepath.Join(dir, "counter.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"serpapi_calls":1}`, string(counter))

	_, err = os.Stat(filepath.Join(dir, config.FileName))
	assert.NoError(t, err, "config is bootstrapped into the data dir")
}

func TestAnalyzeCommand_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	dir := t.TempDir()
	t.Setenv("SERPAPI_KEY", "sk-test")
	t.Setenv("SKILLTREND_PROVIDER_BASE_URL", srv.URL)

	_, err := run(t, "--data-dir", dir, "--log-level", "error", "analyze", "go", "--no-export")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")

	_, statErr := os.Stat(filepath.Join(dir, "data", "cleaned_job_skills.csv"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestUsageCommand_Local(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SERPAPI_KEY", "sk-test")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "counter.json"), []byte(`{"serpapi_calls":7}`), 0o644))

	out, err := run(t, "--data-dir", dir, "--log-level", "error", "usage", "--local")
	require.NoError(t, err, out)
	assert.Contains(t, out, "local calls:  7")
}

func TestConfigCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, "--data-dir", dir, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, config.FileName), strings.TrimSpace(out))

	out, err = run(t, "--data-dir", dir, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "ok")

	out, err = run(t, "--data-dir", dir, "config", "init")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Wrote")
}

func TestSecretCommands_SetThenDeleteAPIKey(t *testing.T) {
	keyring.MockInit()
	dir := t.TempDir()

	out, err := run(t, "--data-dir", dir, "--log-level", "error", "secret", "set-api-key", "sk-stored")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Stored serpapi key")

	got, err := keyring.Get(secrets.KeyringService, secrets.APIKeyAccount("serpapi"))
	require.NoError(t, err)
	assert.Equal(t, "sk-stored", got)

	out, err = run(t, "--data-dir", dir, "--log-level", "error", "secret", "delete-api-key")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Deleted serpapi key")

	_, err = keyring.Get(secrets.KeyringService, secrets.APIKeyAccount("serpapi"))
	assert.ErrorIs(t, err, keyring.ErrNotFound)

	out, err = run(t, "--data-dir", dir, "--log-level", "error", "secret", "delete-api-key")
	require.NoError(t, err, out)
	assert.Contains(t, out, "No serpapi key")
}

func TestRolesOrDefault(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, []string{"dotnet"}, rolesOrDefault(nil, cfg))
	assert.Equal(t, []string{"go", "rust"}, rolesOrDefault([]string{" go ", "", "rust"}, cfg))

	cfg.App.DefaultRole = ""
	assert.Empty(t, rolesOrDefault(nil, cfg))
}

func TestArgOrStdin(t *testing.T) {
	v, err := argOrStdin([]string{"abc"}, strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, "abc", v)

	v, err = argOrStdin(nil, strings.NewReader("  from-stdin \n"))
	require.NoError(t, err)
	assert.Equal(t, "from-stdin", v)

	_, err = argOrStdin(nil, strings.NewReader("\n"))
	assert.Error(t, err)
}
