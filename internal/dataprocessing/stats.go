package dataprocessing

import (
	"context"
	"log/slog"
	"math"
	"sort"

	apperrors "caenergy/internal/errors"
	"caenergy/pkg/contracts/domain"
)

// Engine computes the summary statistics for a tidy record set. Every method
// is a pure function of its input; calling it twice on the same records
// yields bit-identical results.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates a statistics engine. A nil logger falls back to
// slog.Default.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// categorySeries is one category's observations ordered by year.
type categorySeries struct {
	years       []int
	values      []float64
	percentages []float64
}

// Summarize derives overall, per-category and trend statistics from the
// tidy set.
func (e *Engine) Summarize(ctx context.Context, records []domain.TidyRecord) (*domain.Statistics, error) {
	if len(records) == 0 {
		return nil, apperrors.NewEmptyDatasetError("no tidy records to summarize")
	}

	years, categories, series := indexRecords(records)

	yearTotals := make(map[int]float64, len(years))
	var totalGeneration float64
	for _, r := range records {
		yearTotals[r.Year] += r.GenerationMWh
		totalGeneration += r.GenerationMWh
	}

	stats := &domain.Statistics{
		ByCategory: make(map[string]domain.CategoryStats),
	}

	stats.Overall = domain.OverallStats{
		TotalGenerationMWh:  totalGeneration,
		YearsAnalyzed:       len(years),
		CategoriesTracked:   len(categories),
		AvgYearlyGeneration: totalGeneration / float64(len(years)),
	}
	stats.Overall.PeakYear, stats.Overall.LowestYear = extremeYears(years, yearTotals)

	for _, category := range categories {
		s := series[category]
		total := sum(s.values)
		// Categories with nothing but zeros carry no signal; they stay
		// out of the per-category map but still count as tracked.
		if total == 0 {
			continue
		}
		peakYear, lowYear := extremeObservations(s.years, s.values)
		stats.ByCategory[category] = domain.CategoryStats{
			TotalGeneration: total,
			AverageYearly:   total / float64(len(s.values)),
			PeakYear:        peakYear,
			LowestYear:      lowYear,
			Volatility:      sampleStdDev(s.values),
			GrowthRate:      compoundGrowthRate(s.values),
		}
	}

	firstYear := years[0]
	lastYear := years[len(years)-1]
	stats.Trends = domain.TrendSummary{
		OverallGrowthRate:    overallGrowthRate(yearTotals[firstYear], yearTotals[lastYear]),
		Period:               domain.Period(firstYear, lastYear),
		DominantCategory:     dominantCategory(categories, series),
		MostVolatileCategory: mostVolatileCategory(categories, series),
	}

	e.logger.InfoContext(ctx, "computed summary statistics",
		slog.Int("years", stats.Overall.YearsAnalyzed),
		slog.Int("categories", stats.Overall.CategoriesTracked),
		slog.String("period", stats.Trends.Period),
		slog.String("dominant_category", stats.Trends.DominantCategory))

	return stats, nil
}

// indexRecords groups the tidy set into per-category year-ordered series.
// Categories and years come back sorted so every downstream selection is
// deterministic.
func indexRecords(records []domain.TidyRecord) ([]int, []string, map[string]*categorySeries) {
	yearSet := make(map[int]struct{})
	series := make(map[string]*categorySeries)

	ordered := make([]domain.TidyRecord, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Category != ordered[j].Category {
			return ordered[i].Category < ordered[j].Category
		}
		return ordered[i].Year < ordered[j].Year
	})

	var categories []string
	for _, r := range ordered {
		yearSet[r.Year] = struct{}{}
		s, ok := series[r.Category]
		if !ok {
			s = &categorySeries{}
			series[r.Category] = s
			categories = append(categories, r.Category)
		}
		s.years = append(s.years, r.Year)
		s.values = append(s.values, r.GenerationMWh)
		s.percentages = append(s.percentages, r.Percentage)
	}

	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	return years, categories, series
}

// compoundGrowthRate computes the compound annual growth rate in percent for
// a time-ordered series: ((last/first)^(1/(n-1)) - 1) * 100. It is 0.0 when
// fewer than two observations exist or the first value is not positive; no
// logarithmic or geometric-mean fallback is attempted.
func compoundGrowthRate(values []float64) float64 {
	if len(values) < 2 {
		return 0.0
	}
	first := values[0]
	last := values[len(values)-1]
	if first <= 0 {
		return 0.0
	}
	periods := float64(len(values) - 1)
	return (math.Pow(last/first, 1/periods) - 1) * 100
}

// overallGrowthRate is the simple percentage change between the first and
// last year's grand totals.
func overallGrowthRate(firstTotal, lastTotal float64) float64 {
	if firstTotal == 0 {
		return 0.0
	}
	return (lastTotal/firstTotal - 1) * 100
}

// sampleStdDev computes the sample (n-1) standard deviation, 0 with fewer
// than two observations.
func sampleStdDev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0.0
	}
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}

// dominantCategory picks the category with the highest mean percentage
// share, averaged over the years the category appears in. Ties keep the
// first category in sorted order.
func dominantCategory(categories []string, series map[string]*categorySeries) string {
	var winner string
	best := math.Inf(-1)
	for _, category := range categories {
		s := series[category]
		m := sum(s.percentages) / float64(len(s.percentages))
		if m > best {
			best = m
			winner = category
		}
	}
	return winner
}

// mostVolatileCategory picks the category with the highest standard
// deviation of generation. Ties keep the first category in sorted order.
func mostVolatileCategory(categories []string, series map[string]*categorySeries) string {
	var winner string
	best := math.Inf(-1)
	for _, category := range categories {
		sd := sampleStdDev(series[category].values)
		if sd > best {
			best = sd
			winner = category
		}
	}
	return winner
}

// extremeYears returns the years with the highest and lowest totals. Ties
// keep the earliest year.
func extremeYears(years []int, totals map[int]float64) (peak, lowest int) {
	peak = years[0]
	lowest = years[0]
	for _, y := range years[1:] {
		if totals[y] > totals[peak] {
			peak = y
		}
		if totals[y] < totals[lowest] {
			lowest = y
		}
	}
	return peak, lowest
}

// extremeObservations returns the years at which a category's own value is
// highest and lowest. Ties keep the earliest year.
func extremeObservations(years []int, values []float64) (peak, lowest int) {
	pi, li := 0, 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[pi] {
			pi = i
		}
		if values[i] < values[li] {
			li = i
		}
	}
	return years[pi], years[li]
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}
