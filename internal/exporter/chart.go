package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"caenergy/internal/dataprocessing"
	apperrors "caenergy/internal/errors"
	"caenergy/pkg/contracts/domain"
)

// chartTopFuels is how many fuels get their own band in the stacked chart;
// everything past that folds into "Other".
const chartTopFuels = 6

// Landscape A4 plot area in millimetres.
const (
	plotLeft   = 20.0
	plotTop    = 30.0
	plotWidth  = 230.0
	plotHeight = 140.0
)

// fuelPalette cycles through the band fill colors.
var fuelPalette = [][3]int{
	{31, 119, 180},
	{255, 127, 14},
	{44, 160, 44},
	{214, 39, 40},
	{148, 103, 189},
	{140, 86, 75},
	{127, 127, 127},
}

// WriteEnergyMixPDF renders the stacked generation-mix chart for the top
// fuels as a single-page landscape PDF and returns the written path. The
// utility-scale aggregate row is excluded from the stack.
func (w *Writer) WriteEnergyMixPDF(ctx context.Context, records []domain.TidyRecord) (string, error) {
	path := w.OutputPath(ChartPDFName)

	years, labels, series := dataprocessing.ChartSeries(records, chartTopFuels)
	if len(years) == 0 || len(labels) == 0 {
		return "", apperrors.NewEmptyDatasetError("no records to chart")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", apperrors.NewStorageError("failed to create output directory", err)
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, "California Electricity Generation Mix", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 6,
		fmt.Sprintf("Stacked net generation by fuel, %d-%d (thousand MWh)", years[0], years[len(years)-1]),
		"", 1, "C", false, 0, "")

	drawStackedArea(pdf, years, series)
	drawLegend(pdf, labels)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", apperrors.NewStorageError("failed to write chart PDF", err)
	}

	w.logger.InfoContext(ctx, "wrote generation mix chart",
		slog.String("path", path),
		slog.Int("fuels", len(labels)),
		slog.Int("years", len(years)))
	return path, nil
}

// drawStackedArea renders one polygon per fuel band between its cumulative
// baseline and cumulative top, plus the axes and year ticks.
func drawStackedArea(pdf *gofpdf.Fpdf, years []int, series [][]float64) {
	n := len(years)

	// Scale against the tallest stacked total.
	var maxTotal float64
	for yi := 0; yi < n; yi++ {
		var total float64
		for _, s := range series {
			total += s[yi]
		}
		if total > maxTotal {
			maxTotal = total
		}
	}
	if maxTotal == 0 {
		maxTotal = 1
	}

	xAt := func(yi int) float64 {
		if n == 1 {
			return plotLeft + plotWidth/2
		}
		return plotLeft + plotWidth*float64(yi)/float64(n-1)
	}
	yAt := func(v float64) float64 {
		return plotTop + plotHeight - plotHeight*v/maxTotal
	}

	baseline := make([]float64, n)
	for si, s := range series {
		color := fuelPalette[si%len(fuelPalette)]
		pdf.SetFillColor(color[0], color[1], color[2])

		points := make([]gofpdf.PointType, 0, 2*n)
		for yi := 0; yi < n; yi++ {
			points = append(points, gofpdf.PointType{X: xAt(yi), Y: yAt(baseline[yi] + s[yi])})
		}
		for yi := n - 1; yi >= 0; yi-- {
			points = append(points, gofpdf.PointType{X: xAt(yi), Y: yAt(baseline[yi])})
		}
		pdf.Polygon(points, "F")

		for yi := 0; yi < n; yi++ {
			baseline[yi] += s[yi]
		}
	}

	pdf.SetDrawColor(0, 0, 0)
	pdf.Line(plotLeft, plotTop, plotLeft, plotTop+plotHeight)
	pdf.Line(plotLeft, plotTop+plotHeight, plotLeft+plotWidth, plotTop+plotHeight)

	pdf.SetFont("Arial", "", 7)
	step := 1
	if n > 12 {
		step = n / 12
	}
	for yi := 0; yi < n; yi += step {
		pdf.Text(xAt(yi)-3, plotTop+plotHeight+5, fmt.Sprintf("%d", years[yi]))
	}
	pdf.Text(plotLeft-16, plotTop+3, groupThousandsLabel(maxTotal))
	pdf.Text(plotLeft-6, plotTop+plotHeight, "0")
}

// drawLegend paints one color swatch per fuel below the plot area.
func drawLegend(pdf *gofpdf.Fpdf, labels []string) {
	x := plotLeft
	y := plotTop + plotHeight + 12
	pdf.SetFont("Arial", "", 8)
	for i, label := range labels {
		color := fuelPalette[i%len(fuelPalette)]
		pdf.SetFillColor(color[0], color[1], color[2])
		pdf.Rect(x, y-3, 4, 4, "F")
		pdf.Text(x+6, y, label)
		x += 6 + pdf.GetStringWidth(label) + 10
		if x > plotLeft+plotWidth-30 {
			x = plotLeft
			y += 6
		}
	}
}

func groupThousandsLabel(v float64) string {
	if v >= 1000 {
		return fmt.Sprintf("%.0fk", v/1000)
	}
	return fmt.Sprintf("%.0f", v)
}
