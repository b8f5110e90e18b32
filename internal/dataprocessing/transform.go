package dataprocessing

import (
	"caenergy/pkg/contracts/domain"
)

// Tidy reshapes the wide year-by-category matrix into the long form: one
// record per (year, category) cell, annotated with its year's total and the
// category's percentage share of it. Years enumerate ascending with the
// table's category order inside each year.
//
// A year whose categories sum to zero yields Percentage 0 for all its rows;
// dominant-category selection then sees those rows as contributing nothing
// instead of failing on a division by zero.
func Tidy(table *domain.RawTable) []domain.TidyRecord {
	records := make([]domain.TidyRecord, 0, len(table.Years)*len(table.Categories))

	for yi, year := range table.Years {
		total := table.YearTotal(yi)
		for ci, category := range table.Categories {
			value := table.Values[yi][ci]
			pct := 0.0
			if total != 0 {
				pct = value / total * 100
			}
			records = append(records, domain.TidyRecord{
				Year:                  year,
				Category:              category,
				GenerationMWh:         value,
				TotalYearlyGeneration: total,
				Percentage:            pct,
			})
		}
	}

	return records
}
