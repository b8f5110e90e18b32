package exporter

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "caenergy/internal/errors"
	"caenergy/pkg/contracts/domain"
)

func sampleRecords() []domain.TidyRecord {
	return []domain.TidyRecord{
		{Year: 2014, Category: "Natural Gas", GenerationMWh: 100, TotalYearlyGeneration: 150, Percentage: 66.6666667},
		{Year: 2014, Category: "Coal", GenerationMWh: 50, TotalYearlyGeneration: 150, Percentage: 33.3333333},
		{Year: 2015, Category: "Natural Gas", GenerationMWh: 110, TotalYearlyGeneration: 150, Percentage: 73.3333333},
		{Year: 2015, Category: "Coal", GenerationMWh: 40, TotalYearlyGeneration: 150, Percentage: 26.6666667},
	}
}

func sampleStats() *domain.Statistics {
	return &domain.Statistics{
		Overall: domain.OverallStats{
			TotalGenerationMWh: 300,
			YearsAnalyzed:      2,
			CategoriesTracked:  2,
			PeakYear:           2014,
			LowestYear:         2014,
		},
		ByCategory: map[string]domain.CategoryStats{
			"Natural Gas": {TotalGeneration: 210, AverageYearly: 105, PeakYear: 2015, LowestYear: 2014, GrowthRate: 10},
			"Coal":        {TotalGeneration: 90, AverageYearly: 45, PeakYear: 2014, LowestYear: 2015, GrowthRate: -20},
		},
		Trends: domain.TrendSummary{
			Period:           "2014-2015",
			DominantCategory: "Natural Gas",
		},
	}
}

func TestWriteTidyCSV(t *testing.T) {
	w := NewWriter(t.TempDir(), nil)

	path, err := w.WriteTidyCSV(context.Background(), sampleRecords())
	require.NoError(t, err)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)

	assert.Equal(t, []string{
		"Year", "Category", "Generation_MWh", "Total_Yearly_Generation", "Percentage",
	}, rows[0])
	assert.Equal(t, []string{"2014", "Natural Gas", "100.00", "150.00", "66.67"}, rows[1])
	assert.Equal(t, []string{"2015", "Coal", "40.00", "150.00", "26.67"}, rows[4])
}

func TestWriteAnalysisJSON(t *testing.T) {
	w := NewWriter(t.TempDir(), nil)
	stats := sampleStats()
	result := &domain.AnalysisResult{
		Overall:    stats.Overall,
		ByCategory: stats.ByCategory,
		Trends:     stats.Trends,
		Insights: domain.Insights{
			KeyFindings:     []string{"Net generation grew 0.7% from 2014-2015"},
			NotableTrends:   []string{},
			Recommendations: []string{},
		},
	}

	path, err := w.WriteAnalysisJSON(context.Background(), result)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded domain.AnalysisResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, result.Overall, decoded.Overall)
	assert.Equal(t, result.Trends, decoded.Trends)
	assert.Equal(t, result.Insights.KeyFindings, decoded.Insights.KeyFindings)
	// Indented output, not a single line.
	assert.Contains(t, string(data), "\n  ")
}

func TestWriteWorkbook(t *testing.T) {
	w := NewWriter(t.TempDir(), nil)

	path, err := w.WriteWorkbook(context.Background(), sampleRecords(), sampleStats())
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{sheetTidy, sheetStats, sheetFuels}, f.GetSheetList())

	year, err := f.GetCellValue(sheetTidy, "A2")
	require.NoError(t, err)
	assert.Equal(t, "2014", year)
	category, err := f.GetCellValue(sheetTidy, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Natural Gas", category)

	// Category Stats follows sorted category order.
	first, err := f.GetCellValue(sheetStats, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Coal", first)

	// Fuel Totals is sorted by total descending.
	topFuel, err := f.GetCellValue(sheetFuels, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Natural Gas", topFuel)
}

func TestWriteSheet_PropagatesCellErrors(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	err := writeSheet(f, "No Such Sheet", [][]interface{}{{"Year"}})
	require.Error(t, err)
}

func TestWriteEnergyMixPDF(t *testing.T) {
	w := NewWriter(t.TempDir(), nil)

	path, err := w.WriteEnergyMixPDF(context.Background(), sampleRecords())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestWriteEnergyMixPDF_Empty(t *testing.T) {
	w := NewWriter(t.TempDir(), nil)

	_, err := w.WriteEnergyMixPDF(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeEmptyDataset))
}

func TestWriter_CreatesNestedOutputDir(t *testing.T) {
	base := t.TempDir()
	w := NewWriter(base+"/nested/out", nil)

	path, err := w.WriteTidyCSV(context.Background(), sampleRecords())
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}
