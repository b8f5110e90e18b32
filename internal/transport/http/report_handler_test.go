package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caenergy/internal/exporter"
)

const sampleAnalysis = `{
  "overall": {"total_generation_mwh": 452, "years_analyzed": 3, "categories_tracked": 2, "avg_yearly_generation": 150.67, "peak_year": 2016, "lowest_year": 2014},
  "by_category": {"Natural Gas": {"total_generation": 331, "average_yearly": 110.33, "peak_year": 2016, "lowest_year": 2014, "volatility": 10.5, "growth_rate": 10}},
  "trends": {"overall_growth_rate": 0.67, "period": "2014-2016", "dominant_category": "Natural Gas", "most_volatile_category": "Natural Gas"},
  "insights": {"key_findings": ["Net generation grew 0.7% from 2014-2016"], "notable_trends": [], "category_highlights": [], "recommendations": []}
}`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeArtifact(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func newTestServer(t *testing.T, outDir string) *httptest.Server {
	t.Helper()
	handler := NewReportHandler(outDir, nil)
	server := httptest.NewServer(handler.Routes())
	t.Cleanup(server.Close)
	return server
}

func TestGetAnalysis(t *testing.T) {
	outDir := t.TempDir()
	writeArtifact(t, outDir, exporter.AnalysisJSONName, sampleAnalysis)
	server := newTestServer(t, outDir)

	resp, err := http.Get(server.URL + "/analysis")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body, "overall")
	assert.Contains(t, body, "by_category")
	assert.Contains(t, body, "insights")
}

func TestGetAnalysis_NotReady(t *testing.T) {
	server := newTestServer(t, t.TempDir())

	resp, err := http.Get(server.URL + "/analysis")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body struct {
		Error struct {
			ErrorCode string `json:"error_code"`
			Message   string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ARTIFACT_NOT_READY", body.Error.ErrorCode)
	assert.Contains(t, body.Error.Message, "run the analyzer first")
}

func TestGetSummary_OmitsCategoryDetail(t *testing.T) {
	outDir := t.TempDir()
	writeArtifact(t, outDir, exporter.AnalysisJSONName, sampleAnalysis)
	server := newTestServer(t, outDir)

	resp, err := http.Get(server.URL + "/summary")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body, "overall")
	assert.Contains(t, body, "trends")
	assert.Contains(t, body, "insights")
	assert.NotContains(t, body, "by_category")
}

func TestDownloadArtifact(t *testing.T) {
	outDir := t.TempDir()
	writeArtifact(t, outDir, exporter.TidyCSVName,
		"Year,Category,Generation_MWh,Total_Yearly_Generation,Percentage\n")
	server := newTestServer(t, outDir)

	resp, err := http.Get(server.URL + "/download/csv")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), exporter.TidyCSVName)
}

func TestDownloadArtifact_UnknownType(t *testing.T) {
	server := newTestServer(t, t.TempDir())

	resp, err := http.Get(server.URL + "/download/parquet")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDownloadArtifact_NotReady(t *testing.T) {
	server := newTestServer(t, t.TempDir())

	resp, err := http.Get(server.URL + "/download/chart")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
