package dataprocessing

import (
	"sort"
	"strings"
	"unicode"

	"caenergy/pkg/contracts/domain"
)

// UtilityScaleAggregate is the clean name of the "all fuels" aggregate row
// present in EIA exports. It is kept for context but must never be stacked
// with the individual fuels it already sums.
const UtilityScaleAggregate = "All Fuels (Utility-Scale)"

const allSectorsPrefix = "all sectors : "

// fuelRenames maps raw fuel keywords onto their display names. Checked after
// the solar rules; first match in order wins.
var fuelRenames = []struct {
	keyword string
	name    string
}{
	{"natural gas", "Natural Gas"},
	{"coal", "Coal"},
	{"nuclear", "Nuclear"},
	{"other renewables", "Other Renewables"},
	{"conventional hydroelectric", "Hydroelectric"},
	{"other gases", "Other Gases"},
	{"petroleum liquids", "Petroleum Liquids"},
	{"petroleum coke", "Petroleum Coke"},
}

// solarKeywords collapse every solar-technology sub-row into one parent
// fuel. These are checked before the generic renames: "solar thermal" must
// not fall through to title casing.
var solarKeywords = []string{
	"all utility-scale solar",
	"utility-scale photovoltaic",
	"photovoltaic",
	"solar thermal",
	"all solar",
}

// CleanFuelName maps a raw EIA description onto a canonical fuel name using
// ordered case-insensitive substring rules, with title casing as the
// fallback for labels no rule knows.
func CleanFuelName(raw string) string {
	name := strings.TrimSpace(raw)
	if len(name) >= len(allSectorsPrefix) &&
		strings.EqualFold(name[:len(allSectorsPrefix)], allSectorsPrefix) {
		name = strings.TrimSpace(name[len(allSectorsPrefix):])
	}

	lower := strings.ToLower(name)
	if strings.Contains(lower, "all fuels (utility-scale)") {
		return UtilityScaleAggregate
	}

	for _, kw := range solarKeywords {
		if strings.Contains(lower, kw) {
			return "All Utility-Scale Solar"
		}
	}

	for _, rule := range fuelRenames {
		if strings.Contains(lower, rule.keyword) {
			return rule.name
		}
	}

	return titleCase(strings.TrimSpace(strings.ReplaceAll(name, "  ", " ")))
}

// AggregateFuels rolls the tidy set up by clean fuel name: total generation
// over the period and a compound annual growth rate of the per-year summed
// series, sorted by total descending (names break ties).
func AggregateFuels(records []domain.TidyRecord) []domain.FuelAggregate {
	years, fuels, matrix := fuelMatrix(records, nil)

	aggregates := make([]domain.FuelAggregate, 0, len(fuels))
	for fi, fuel := range fuels {
		var total float64
		series := make([]float64, len(years))
		for yi := range years {
			series[yi] = matrix[fi][yi]
			total += matrix[fi][yi]
		}
		aggregates = append(aggregates, domain.FuelAggregate{
			Fuel:          fuel,
			TotalMWh:      total,
			GrowthPercent: compoundGrowthRate(series),
		})
	}

	sort.SliceStable(aggregates, func(i, j int) bool {
		if aggregates[i].TotalMWh != aggregates[j].TotalMWh {
			return aggregates[i].TotalMWh > aggregates[j].TotalMWh
		}
		return aggregates[i].Fuel < aggregates[j].Fuel
	})
	return aggregates
}

// ChartSeries builds the stacked-area chart input: per-year generation for
// the topN clean fuels by period total, with every remaining fuel folded
// into an "Other" bucket. The utility-scale aggregate row is excluded so the
// stack is not double counted. Returns the ascending years, the fuel labels
// in stacking order, and one value row per fuel aligned with the years.
func ChartSeries(records []domain.TidyRecord, topN int) ([]int, []string, [][]float64) {
	skip := map[string]struct{}{UtilityScaleAggregate: {}}
	years, fuels, matrix := fuelMatrix(records, skip)
	if len(fuels) == 0 {
		return years, nil, nil
	}

	totals := make(map[string]float64, len(fuels))
	for fi, fuel := range fuels {
		for yi := range years {
			totals[fuel] += matrix[fi][yi]
		}
	}

	order := make([]int, len(fuels))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		fa, fb := fuels[order[a]], fuels[order[b]]
		if totals[fa] != totals[fb] {
			return totals[fa] > totals[fb]
		}
		return fa < fb
	})

	keep := len(order)
	if topN > 0 && topN < keep {
		keep = topN
	}

	labels := make([]string, 0, keep+1)
	series := make([][]float64, 0, keep+1)
	for _, fi := range order[:keep] {
		labels = append(labels, fuels[fi])
		series = append(series, matrix[fi])
	}

	if keep < len(order) {
		other := make([]float64, len(years))
		for _, fi := range order[keep:] {
			for yi := range years {
				other[yi] += matrix[fi][yi]
			}
		}
		labels = append(labels, "Other")
		series = append(series, other)
	}

	return years, labels, series
}

// fuelMatrix sums the tidy set per (clean fuel, year), skipping the given
// fuels. Rows follow first-appearance order of the cleaned names; years
// ascend.
func fuelMatrix(records []domain.TidyRecord, skip map[string]struct{}) ([]int, []string, [][]float64) {
	yearSet := make(map[int]struct{})
	for _, r := range records {
		yearSet[r.Year] = struct{}{}
	}
	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	yearIdx := make(map[int]int, len(years))
	for i, y := range years {
		yearIdx[y] = i
	}

	var fuels []string
	fuelIdx := make(map[string]int)
	var matrix [][]float64

	for _, r := range records {
		fuel := CleanFuelName(r.Category)
		if _, skipped := skip[fuel]; skipped {
			continue
		}
		fi, ok := fuelIdx[fuel]
		if !ok {
			fi = len(fuels)
			fuelIdx[fuel] = fi
			fuels = append(fuels, fuel)
			matrix = append(matrix, make([]float64, len(years)))
		}
		matrix[fi][yearIdx[r.Year]] += r.GenerationMWh
	}

	return years, fuels, matrix
}

// titleCase capitalizes the first letter of every word, lowercasing the
// rest, with any non-letter acting as a word boundary.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}
