package dataprocessing

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "caenergy/internal/errors"
)

// Markers identifying the metadata-tagged EIA layout. All three must appear
// as cells of one row for that row to count as the header.
const (
	markerDescription = "description"
	markerUnits       = "units"
	markerSourceKey   = "source key"
)

// positionalYearCol is the first column that can hold year headers in the
// positional layout; columns 1 and 2 carry units and source-key metadata.
const positionalYearCol = 3

// minPositionalYears is how many year-like tokens a row needs at or after
// positionalYearCol before it is accepted as a positional header row.
const minPositionalYears = 3

// headerLocation describes where the tabular body of an export begins and
// how its columns map onto years.
type headerLocation struct {
	HeaderRow   int    // zero-based index of the header row
	CategoryCol int    // column holding the raw category label
	Years       []int  // years in column order, not yet sorted
	YearCols    []int  // column index of each entry in Years
	Layout      string // name of the strategy that matched
}

// layoutStrategy is one recognized export shape. Strategies are tried in a
// fixed order; the first match wins. A strategy that recognizes the header
// but finds no usable year columns returns an error rather than false, since
// trying further strategies would mask a malformed file.
type layoutStrategy interface {
	Name() string
	Locate(rows [][]string) (headerLocation, bool, error)
}

// metadataLayout matches exports whose header row carries the literal
// description/units/source key column names followed by year columns.
type metadataLayout struct{}

func (metadataLayout) Name() string { return "metadata-tagged" }

func (l metadataLayout) Locate(rows [][]string) (headerLocation, bool, error) {
	for i, row := range rows {
		descCol := -1
		markers := 0
		for j, cell := range row {
			switch strings.TrimSpace(cell) {
			case markerDescription:
				descCol = j
				markers++
			case markerUnits, markerSourceKey:
				markers++
			}
		}
		if markers < 3 || descCol < 0 {
			continue
		}

		loc := headerLocation{
			HeaderRow:   i,
			CategoryCol: descCol,
			Layout:      l.Name(),
		}
		for j, cell := range row {
			if year, ok := parseYearToken(cell); ok {
				loc.Years = append(loc.Years, year)
				loc.YearCols = append(loc.YearCols, j)
			}
		}
		if len(loc.Years) == 0 {
			return headerLocation{}, false, apperrors.NewMissingYearColumnsError(
				"header row found but no column name parses as a year").
				WithContext("header_row", i).
				WithContext("layout", l.Name())
		}
		return loc, true, nil
	}
	return headerLocation{}, false, nil
}

// positionalLayout matches older exports with no column names: the header is
// the first row holding a run of year tokens starting at column index 3,
// with the category label in column 0 of each data row.
type positionalLayout struct{}

func (positionalLayout) Name() string { return "positional" }

func (l positionalLayout) Locate(rows [][]string) (headerLocation, bool, error) {
	for i, row := range rows {
		if len(row) <= positionalYearCol {
			continue
		}

		loc := headerLocation{
			HeaderRow:   i,
			CategoryCol: 0,
			Layout:      l.Name(),
		}
		for j := positionalYearCol; j < len(row); j++ {
			if year, ok := parseYearToken(row[j]); ok {
				loc.Years = append(loc.Years, year)
				loc.YearCols = append(loc.YearCols, j)
			}
		}
		if len(loc.Years) >= minPositionalYears {
			return loc, true, nil
		}
	}
	return headerLocation{}, false, nil
}

// layouts are tried in order; the metadata-tagged shape is more specific and
// must win over the positional scan when both could match.
var layouts = []layoutStrategy{metadataLayout{}, positionalLayout{}}

// detectHeader locates the header row of an export under the recognized
// layouts. The returned DATA_FORMAT error names every marker and layout that
// was tried so the failure is actionable from the message alone.
func detectHeader(rows [][]string) (headerLocation, error) {
	var names []string
	for _, layout := range layouts {
		loc, found, err := layout.Locate(rows)
		if err != nil {
			return headerLocation{}, err
		}
		if found {
			return loc, nil
		}
		names = append(names, layout.Name())
	}
	return headerLocation{}, apperrors.NewDataFormatError(fmt.Sprintf(
		"could not find header row: no line contains the %q/%q/%q markers and no row holds year columns from index %d (layouts tried: %s)",
		markerDescription, markerUnits, markerSourceKey,
		positionalYearCol, strings.Join(names, ", ")))
}

// parseYearToken reports whether a cell holds a plausible 4-digit year.
func parseYearToken(cell string) (int, bool) {
	s := strings.TrimSpace(cell)
	if len(s) != 4 {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	year, err := strconv.Atoi(s)
	if err != nil || year < 1900 || year > 2100 {
		return 0, false
	}
	return year, true
}
