package dataprocessing

import (
	"context"
	"log/slog"

	"github.com/xuri/excelize/v2"

	apperrors "caenergy/internal/errors"
	"caenergy/pkg/contracts/domain"
)

// ParseWorkbook reads an Excel export and extracts the year-by-category
// matrix. Sheets are probed in workbook order; the first one with a
// recognizable header wins. The same layouts and lenient cell policy as the
// CSV path apply.
func (p *Parser) ParseWorkbook(ctx context.Context, path string) (*domain.RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open workbook", err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			p.logger.WarnContext(ctx, "could not read sheet",
				slog.String("sheet", sheet),
				slog.String("error", err.Error()))
			continue
		}

		if _, err := detectHeader(rows); err != nil {
			// A sheet with a header but no year columns is malformed
			// input, not a sheet to skip.
			if apperrors.IsType(err, apperrors.ErrTypeMissingYearColumns) {
				return nil, err
			}
			continue
		}

		p.logger.InfoContext(ctx, "found generation data sheet",
			slog.String("sheet", sheet),
			slog.Int("total_rows", len(rows)))

		return p.BuildTable(ctx, rows)
	}

	return nil, apperrors.NewDataFormatError(
		"could not find a sheet with a recognizable header row in workbook").
		WithContext("path", path)
}
