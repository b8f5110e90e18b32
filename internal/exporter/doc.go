// Package exporter writes the analysis artifacts: the tidy CSV, the
// analysis JSON, an Excel workbook and the stacked generation-mix chart.
// Writers are safe to re-run; each export truncates and rewrites its file.
package exporter
