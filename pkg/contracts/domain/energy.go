package domain

import (
	"fmt"
	"sort"
)

// RawTable is the wide year-by-category generation matrix extracted from an
// EIA export. Years are ascending, one row per observed year; Categories keep
// the raw description labels in the order they were encountered. Every cell
// is a finite number: unparsable or missing source cells are coerced to zero
// at build time, and CoercedCells records how many.
type RawTable struct {
	Years        []int       `json:"years"`
	Categories   []string    `json:"categories"`
	Values       [][]float64 `json:"values"` // Values[yearIdx][categoryIdx]
	CoercedCells int         `json:"coerced_cells"`
}

// Value returns the cell for the given year and category, or 0 when either
// is not present in the table.
func (t *RawTable) Value(year int, category string) float64 {
	yi := t.YearIndex(year)
	ci := t.CategoryIndex(category)
	if yi < 0 || ci < 0 {
		return 0
	}
	return t.Values[yi][ci]
}

// YearIndex returns the row index for year, or -1.
func (t *RawTable) YearIndex(year int) int {
	i := sort.SearchInts(t.Years, year)
	if i < len(t.Years) && t.Years[i] == year {
		return i
	}
	return -1
}

// CategoryIndex returns the column index for category, or -1.
func (t *RawTable) CategoryIndex(category string) int {
	for i, c := range t.Categories {
		if c == category {
			return i
		}
	}
	return -1
}

// YearTotal returns the sum across all categories for the year at row yi.
func (t *RawTable) YearTotal(yi int) float64 {
	var total float64
	for _, v := range t.Values[yi] {
		total += v
	}
	return total
}

// CategorySeries returns the time-ordered values of the category at column ci.
func (t *RawTable) CategorySeries(ci int) []float64 {
	series := make([]float64, len(t.Years))
	for yi := range t.Years {
		series[yi] = t.Values[yi][ci]
	}
	return series
}

// TidyRecord is one (year, category) observation in long form. Percentage is
// the category's share of TotalYearlyGeneration for its year, 0 when that
// total is zero.
type TidyRecord struct {
	Year                  int     `json:"year" csv:"Year"`
	Category              string  `json:"category" csv:"Category"`
	GenerationMWh         float64 `json:"generation_mwh" csv:"Generation_MWh"`
	TotalYearlyGeneration float64 `json:"total_yearly_generation" csv:"Total_Yearly_Generation"`
	Percentage            float64 `json:"percentage" csv:"Percentage"`
}

// CategoryStats holds the per-category aggregates. Volatility is the sample
// standard deviation across the category's observed years (0 with fewer than
// two points); GrowthRate is a compound annual rate in percent (0 when the
// first value is not positive or only one year is observed).
type CategoryStats struct {
	TotalGeneration float64 `json:"total_generation"`
	AverageYearly   float64 `json:"average_yearly"`
	PeakYear        int     `json:"peak_year"`
	LowestYear      int     `json:"lowest_year"`
	Volatility      float64 `json:"volatility"`
	GrowthRate      float64 `json:"growth_rate"`
}

// OverallStats holds dataset-wide aggregates. Peak and lowest year are picked
// by year-summed generation.
type OverallStats struct {
	TotalGenerationMWh  float64 `json:"total_generation_mwh"`
	YearsAnalyzed       int     `json:"years_analyzed"`
	CategoriesTracked   int     `json:"categories_tracked"`
	AvgYearlyGeneration float64 `json:"avg_yearly_generation"`
	PeakYear            int     `json:"peak_year"`
	LowestYear          int     `json:"lowest_year"`
}

// TrendSummary describes the period-level trend. DominantCategory is the
// category with the highest mean percentage share over the years it appears
// in; MostVolatileCategory has the highest standard deviation of generation.
type TrendSummary struct {
	OverallGrowthRate    float64 `json:"overall_growth_rate"`
	Period               string  `json:"period"`
	DominantCategory     string  `json:"dominant_category"`
	MostVolatileCategory string  `json:"most_volatile_category"`
}

// Statistics bundles every aggregate derived from one tidy set.
type Statistics struct {
	Overall    OverallStats             `json:"overall"`
	ByCategory map[string]CategoryStats `json:"by_category"`
	Trends     TrendSummary             `json:"trends"`
}

// CategoryHighlight labels one category's trajectory over the period.
type CategoryHighlight struct {
	Category          string  `json:"category"`
	Trend             string  `json:"trend"`
	GrowthRate        float64 `json:"growth_rate"`
	TotalContribution float64 `json:"total_contribution"`
}

// Insights is the rule-based natural-language reading of the statistics.
type Insights struct {
	KeyFindings        []string            `json:"key_findings"`
	NotableTrends      []string            `json:"notable_trends"`
	CategoryHighlights []CategoryHighlight `json:"category_highlights"`
	Recommendations    []string            `json:"recommendations"`
}

// AnalysisResult is the complete exported analysis record.
type AnalysisResult struct {
	Overall    OverallStats             `json:"overall"`
	ByCategory map[string]CategoryStats `json:"by_category"`
	Trends     TrendSummary             `json:"trends"`
	Insights   Insights                 `json:"insights"`
}

// FuelAggregate is the per-clean-fuel rollup used by the chart and workbook
// exports: total generation over the period and a compound annual growth rate
// of the per-year summed series.
type FuelAggregate struct {
	Fuel          string  `json:"fuel"`
	TotalMWh      float64 `json:"total_mwh"`
	GrowthPercent float64 `json:"growth_percent"`
}

// Period formats a first-last year range the way the analysis reports it.
func Period(first, last int) string {
	return fmt.Sprintf("%d-%d", first, last)
}
