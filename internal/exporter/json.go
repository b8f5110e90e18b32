package exporter

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "caenergy/internal/errors"
	"caenergy/pkg/contracts/domain"
)

// WriteAnalysisJSON writes the full analysis result as indented JSON and
// returns the written path.
func (w *Writer) WriteAnalysisJSON(ctx context.Context, result *domain.AnalysisResult) (string, error) {
	path := w.OutputPath(AnalysisJSONName)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", apperrors.NewStorageError("failed to create output directory", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return "", apperrors.NewStorageError("failed to create JSON file", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return "", apperrors.NewStorageError("failed to encode analysis JSON", err)
	}

	w.logger.InfoContext(ctx, "wrote analysis JSON", slog.String("path", path))
	return path, nil
}
