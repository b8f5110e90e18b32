package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caenergy/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadFromFile("")
	require.NoError(t, err)
	cfg.Paths.OutputDir = t.TempDir()
	return cfg
}

func TestRouter_Healthz(t *testing.T) {
	cfg := testConfig(t)
	server := httptest.NewServer(NewRouter(cfg, discardLogger()))
	defer server.Close()

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestRouter_Metrics(t *testing.T) {
	cfg := testConfig(t)
	server := httptest.NewServer(NewRouter(cfg, discardLogger()))
	defer server.Close()

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_ReportsMounted(t *testing.T) {
	cfg := testConfig(t)
	server := httptest.NewServer(NewRouter(cfg, discardLogger()))
	defer server.Close()

	// No artifacts generated yet: the route exists and answers 404 with the
	// artifact-not-ready code rather than chi's plain 404.
	resp, err := http.Get(server.URL + "/api/reports/analysis")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body struct {
		Error struct {
			ErrorCode string `json:"error_code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ARTIFACT_NOT_READY", body.Error.ErrorCode)
}

func TestRouter_RateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.RateLimit.Enabled = true
	cfg.Server.RateLimit.RPS = 1
	cfg.Server.RateLimit.Burst = 1
	server := httptest.NewServer(NewRouter(cfg, discardLogger()))
	defer server.Close()

	first, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	first.Body.Close()
	assert.Equal(t, http.StatusOK, first.StatusCode)

	second, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer second.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
	assert.Equal(t, "60", second.Header.Get("Retry-After"))
}
