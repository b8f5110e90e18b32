package dataprocessing

import (
	"context"
	"encoding/csv"
	"log/slog"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	apperrors "caenergy/internal/errors"
	"caenergy/pkg/contracts/domain"
)

// Parser builds RawTables from EIA annual-generation exports.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a parser. A nil logger falls back to slog.Default.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// ParseCSV reads a CSV export and extracts the year-by-category matrix.
func (p *Parser) ParseCSV(ctx context.Context, path string) (*domain.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open data file", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read CSV input", err)
	}

	p.logger.InfoContext(ctx, "read data file",
		slog.String("path", path),
		slog.Int("total_rows", len(rows)))

	return p.BuildTable(ctx, rows)
}

// BuildTable locates the header in the given rows and assembles the
// RawTable. Cell-level parse failures never abort the run: each unparsable
// non-empty cell coerces to 0.0 and is counted, tolerating the blank cells,
// "NM" placeholders and footnote markers real EIA exports contain.
func (p *Parser) BuildTable(ctx context.Context, rows [][]string) (*domain.RawTable, error) {
	loc, err := detectHeader(rows)
	if err != nil {
		return nil, err
	}

	p.logger.InfoContext(ctx, "located header row",
		slog.String("layout", loc.Layout),
		slog.Int("header_row", loc.HeaderRow),
		slog.Int("year_columns", len(loc.Years)))

	// Years ascend in the output regardless of export column order.
	order := make([]int, len(loc.Years))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return loc.Years[order[a]] < loc.Years[order[b]] })

	years := make([]int, len(order))
	yearCols := make([]int, len(order))
	for i, idx := range order {
		years[i] = loc.Years[idx]
		yearCols[i] = loc.YearCols[idx]
	}

	table := &domain.RawTable{Years: years}
	catIndex := make(map[string]int)

	for i := loc.HeaderRow + 1; i < len(rows); i++ {
		row := rows[i]

		var label string
		if loc.CategoryCol < len(row) {
			label = strings.TrimSpace(row[loc.CategoryCol])
		}
		if label == "" {
			continue
		}

		values := make([]float64, len(years))
		nonZero := false
		for vi, col := range yearCols {
			var cell string
			if col < len(row) {
				cell = row[col]
			}
			v, coerced := parseCell(cell)
			if coerced {
				table.CoercedCells++
				p.logger.DebugContext(ctx, "coerced unparsable cell to zero",
					slog.Int("row", i),
					slog.Int("column", col),
					slog.String("value", cell))
			}
			if v != 0 {
				nonZero = true
			}
			values[vi] = v
		}

		// All-zero rows would pollute every downstream aggregate with
		// inert categories, so they are dropped here.
		if !nonZero {
			continue
		}

		if ci, ok := catIndex[label]; ok {
			// Duplicate labels collapse into one column; downstream
			// grouping would sum them anyway.
			p.logger.WarnContext(ctx, "duplicate category label, summing values",
				slog.String("category", label))
			for yi := range years {
				table.Values[yi][ci] += values[yi]
			}
			continue
		}

		catIndex[label] = len(table.Categories)
		table.Categories = append(table.Categories, label)
		if table.Values == nil {
			table.Values = make([][]float64, len(years))
		}
		for yi := range years {
			table.Values[yi] = append(table.Values[yi], values[yi])
		}
	}

	if len(table.Categories) == 0 {
		return nil, apperrors.NewEmptyDatasetError(
			"header found but no category row holds a non-zero value").
			WithContext("header_row", loc.HeaderRow).
			WithContext("layout", loc.Layout)
	}

	p.logger.InfoContext(ctx, "built raw table",
		slog.Int("years", len(table.Years)),
		slog.Int("categories", len(table.Categories)),
		slog.Int("coerced_cells", table.CoercedCells))

	return table, nil
}

// parseCell parses one year cell. Empty and missing cells are ordinary zero
// observations; non-empty cells that fail to parse (or parse to a non-finite
// value) also resolve to zero but are reported as coerced.
func parseCell(cell string) (value float64, coerced bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, true
	}
	return v, false
}
