package dataprocessing

import (
	"fmt"
	"sort"
	"strings"

	"caenergy/pkg/contracts/domain"
)

// Growth-rate thresholds (percent) separating the highlight labels.
const (
	growingThreshold   = 5.0
	decliningThreshold = -5.0
)

// GenerateInsights derives the human-readable findings from a statistics
// record and the tidy set it was computed from. Output ordering is
// deterministic: highlights follow sorted category order, notable trends are
// ranked by growth rate with names breaking ties.
func GenerateInsights(stats *domain.Statistics, records []domain.TidyRecord) domain.Insights {
	insights := domain.Insights{
		KeyFindings:        []string{},
		NotableTrends:      []string{},
		CategoryHighlights: []domain.CategoryHighlight{},
		Recommendations:    []string{},
	}

	var peakTotal float64
	for _, r := range records {
		if r.Year == stats.Overall.PeakYear {
			peakTotal += r.GenerationMWh
		}
	}

	insights.KeyFindings = append(insights.KeyFindings,
		fmt.Sprintf("Net generation grew %.1f%% from %s",
			stats.Trends.OverallGrowthRate, stats.Trends.Period),
		fmt.Sprintf("Total generation over the period: %s MWh",
			groupThousands(stats.Overall.TotalGenerationMWh)),
		fmt.Sprintf("Most influential fuel category on average: %s",
			stats.Trends.DominantCategory),
		fmt.Sprintf("Peak total generation in %d: %s MWh",
			stats.Overall.PeakYear, groupThousands(peakTotal)),
	)

	categories := make([]string, 0, len(stats.ByCategory))
	for category := range stats.ByCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		cs := stats.ByCategory[category]
		trend := "declining"
		switch {
		case cs.GrowthRate > growingThreshold:
			trend = "growing"
		case cs.GrowthRate > decliningThreshold:
			trend = "stable"
		}
		insights.CategoryHighlights = append(insights.CategoryHighlights, domain.CategoryHighlight{
			Category:          category,
			Trend:             trend,
			GrowthRate:        cs.GrowthRate,
			TotalContribution: cs.TotalGeneration,
		})
	}

	if len(categories) > 0 {
		byGrowth := make([]string, len(categories))
		copy(byGrowth, categories)
		sort.SliceStable(byGrowth, func(i, j int) bool {
			return stats.ByCategory[byGrowth[i]].GrowthRate > stats.ByCategory[byGrowth[j]].GrowthRate
		})

		topGrow := byGrowth[0]
		topDecline := byGrowth[len(byGrowth)-1]
		insights.NotableTrends = append(insights.NotableTrends,
			fmt.Sprintf("Fastest growth: %s (%+.1f%%)",
				topGrow, stats.ByCategory[topGrow].GrowthRate),
			fmt.Sprintf("Largest decline: %s (%+.1f%%)",
				topDecline, stats.ByCategory[topDecline].GrowthRate),
		)
	}
	insights.NotableTrends = append(insights.NotableTrends,
		fmt.Sprintf("Most volatile: %s", stats.Trends.MostVolatileCategory))

	return insights
}

// groupThousands renders a value rounded to a whole number with comma
// separators, the way the findings quote generation totals.
func groupThousands(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}

	if neg {
		return "-" + b.String()
	}
	return b.String()
}
