package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "caenergy/internal/errors"
	"caenergy/internal/exporter"
)

// ReportHandler serves the analyzer's artifacts out of the output directory.
type ReportHandler struct {
	outDir string
	logger *slog.Logger
}

// NewReportHandler creates a report handler rooted at outDir.
func NewReportHandler(outDir string, logger *slog.Logger) *ReportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportHandler{
		outDir: outDir,
		logger: logger.With(slog.String("handler", "report")),
	}
}

// Routes returns the report routes.
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/analysis", h.GetAnalysis)
	r.Get("/summary", h.GetSummary)
	r.Get("/download/{artifact}", h.DownloadArtifact)
	return r
}

// artifactFiles maps download keys onto artifact file names and MIME types.
var artifactFiles = map[string]struct {
	name        string
	contentType string
}{
	"csv":      {exporter.TidyCSVName, "text/csv"},
	"json":     {exporter.AnalysisJSONName, "application/json"},
	"workbook": {exporter.WorkbookName, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
	"chart":    {exporter.ChartPDFName, "application/pdf"},
}

// GetAnalysis handles GET /api/reports/analysis, returning the full analysis
// JSON artifact.
func (h *ReportHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	path := filepath.Join(h.outDir, exporter.AnalysisJSONName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.ArtifactNotReadyError(exporter.AnalysisJSONName)))
		return
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to read analysis artifact",
			slog.String("path", path), slog.String("error", err.Error()))
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.FileSystemError("read analysis", err)))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// GetSummary handles GET /api/reports/summary, returning the overall and
// trend sections of the analysis without the per-category detail.
func (h *ReportHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	path := filepath.Join(h.outDir, exporter.AnalysisJSONName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.ArtifactNotReadyError(exporter.AnalysisJSONName)))
		return
	}
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.FileSystemError("read analysis", err)))
		return
	}

	var full map[string]json.RawMessage
	if err := json.Unmarshal(data, &full); err != nil {
		h.logger.ErrorContext(r.Context(), "analysis artifact is not valid JSON",
			slog.String("path", path), slog.String("error", err.Error()))
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrInternalServer))
		return
	}

	summary := map[string]json.RawMessage{}
	for _, key := range []string{"overall", "trends", "insights"} {
		if section, ok := full[key]; ok {
			summary[key] = section
		}
	}
	render.JSON(w, r, summary)
}

// DownloadArtifact handles GET /api/reports/download/{artifact} for the
// csv, json, workbook and chart artifacts.
func (h *ReportHandler) DownloadArtifact(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "artifact")
	artifact, ok := artifactFiles[key]
	if !ok {
		render.Render(w, r, apierrors.NewErrorResponse(
			apierrors.NewWithDetails(http.StatusBadRequest, "INVALID_ARTIFACT",
				"unknown artifact type", key)))
		return
	}

	path := filepath.Join(h.outDir, artifact.name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.ArtifactNotReadyError(artifact.name)))
		return
	}

	h.logger.InfoContext(r.Context(), "serving artifact download",
		slog.String("artifact", key),
		slog.String("path", path))

	w.Header().Set("Content-Type", artifact.contentType)
	w.Header().Set("Content-Disposition", "attachment; filename=\""+artifact.name+"\"")
	http.ServeFile(w, r, path)
}
