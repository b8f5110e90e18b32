package exporter

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"

	"caenergy/internal/dataprocessing"
	apperrors "caenergy/internal/errors"
	"caenergy/pkg/contracts/domain"
)

// Workbook sheet names.
const (
	sheetTidy  = "Tidy Data"
	sheetStats = "Category Stats"
	sheetFuels = "Fuel Totals"
)

// WriteWorkbook writes an Excel workbook with the tidy set, the per-category
// statistics and the clean-fuel rollup on separate sheets, and returns the
// written path.
func (w *Writer) WriteWorkbook(ctx context.Context, records []domain.TidyRecord, stats *domain.Statistics) (string, error) {
	path := w.OutputPath(WorkbookName)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", apperrors.NewStorageError("failed to create output directory", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetTidy)
	if _, err := f.NewSheet(sheetStats); err != nil {
		return "", apperrors.NewStorageError("failed to create stats sheet", err)
	}
	if _, err := f.NewSheet(sheetFuels); err != nil {
		return "", apperrors.NewStorageError("failed to create fuels sheet", err)
	}

	tidyRows := [][]interface{}{
		{"Year", "Category", "Generation_MWh", "Total_Yearly_Generation", "Percentage"},
	}
	for _, r := range records {
		tidyRows = append(tidyRows, []interface{}{
			r.Year, r.Category, r.GenerationMWh, r.TotalYearlyGeneration, r.Percentage,
		})
	}
	if err := writeSheet(f, sheetTidy, tidyRows); err != nil {
		return "", apperrors.NewStorageError("failed to write tidy sheet", err)
	}

	statsRows := [][]interface{}{
		{"Category", "Total_Generation", "Average_Yearly", "Peak_Year",
			"Lowest_Year", "Volatility", "Growth_Rate"},
	}
	categories := make([]string, 0, len(stats.ByCategory))
	for category := range stats.ByCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		cs := stats.ByCategory[category]
		statsRows = append(statsRows, []interface{}{
			category, cs.TotalGeneration, cs.AverageYearly, cs.PeakYear,
			cs.LowestYear, cs.Volatility, cs.GrowthRate,
		})
	}
	if err := writeSheet(f, sheetStats, statsRows); err != nil {
		return "", apperrors.NewStorageError("failed to write stats sheet", err)
	}

	fuelRows := [][]interface{}{{"Fuel", "Total_MWh", "Growth_Percent"}}
	for _, agg := range dataprocessing.AggregateFuels(records) {
		fuelRows = append(fuelRows, []interface{}{agg.Fuel, agg.TotalMWh, agg.GrowthPercent})
	}
	if err := writeSheet(f, sheetFuels, fuelRows); err != nil {
		return "", apperrors.NewStorageError("failed to write fuels sheet", err)
	}

	if err := f.SaveAs(path); err != nil {
		return "", apperrors.NewStorageError("failed to save workbook", err)
	}

	w.logger.InfoContext(ctx, "wrote analysis workbook",
		slog.String("path", path),
		slog.Int("records", len(records)))
	return path, nil
}

// writeSheet writes rows starting at row 1, stopping at the first cell error.
func writeSheet(f *excelize.File, sheet string, rows [][]interface{}) error {
	for ri, row := range rows {
		for ci, v := range row {
			cell, err := excelize.CoordinatesToCellName(ci+1, ri+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}
