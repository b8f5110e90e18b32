package exporter

import (
	"context"
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "caenergy/internal/errors"
	"caenergy/pkg/contracts/domain"
)

// Artifact file names inside the output directory.
const (
	TidyCSVName      = "processed_data.csv"
	AnalysisJSONName = "analysis_results.json"
	WorkbookName     = "energy_analysis.xlsx"
	ChartPDFName     = "generation_mix.pdf"
)

// tidyHeaders is the column order of the tidy CSV export.
var tidyHeaders = []string{
	"Year", "Category", "Generation_MWh", "Total_Yearly_Generation", "Percentage",
}

// Writer exports analysis artifacts into a single output directory.
type Writer struct {
	outDir string
	logger *slog.Logger
}

// NewWriter creates a Writer rooted at outDir. A nil logger falls back to
// slog.Default.
func NewWriter(outDir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{outDir: outDir, logger: logger}
}

// OutputPath resolves an artifact name inside the output directory.
func (w *Writer) OutputPath(name string) string {
	return filepath.Join(w.outDir, name)
}

// WriteTidyCSV writes the tidy record set as processed_data.csv and returns
// the written path.
func (w *Writer) WriteTidyCSV(ctx context.Context, records []domain.TidyRecord) (string, error) {
	path := w.OutputPath(TidyCSVName)

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			formatInt(r.Year),
			r.Category,
			formatFloat(r.GenerationMWh),
			formatFloat(r.TotalYearlyGeneration),
			formatFloat(r.Percentage),
		})
	}

	if err := w.writeCSVFile(path, tidyHeaders, rows); err != nil {
		return "", err
	}

	w.logger.InfoContext(ctx, "wrote tidy CSV",
		slog.String("path", path),
		slog.Int("records", len(records)))
	return path, nil
}

// writeCSVFile writes headers plus rows to path, creating the directory as
// needed.
func (w *Writer) writeCSVFile(path string, headers []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create output directory", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError("failed to create CSV file", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(headers); err != nil {
		return apperrors.NewStorageError("failed to write CSV headers", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return apperrors.NewStorageError("failed to write CSV record", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.NewStorageError("failed to flush CSV file", err)
	}
	return nil
}
