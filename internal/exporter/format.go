package exporter

import "fmt"

// formatFloat formats a value for CSV output with exactly 2 decimal places
// so 13.4 round-trips as 13.40 in every export.
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}
