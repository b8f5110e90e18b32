package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"caenergy/internal/config"
	"caenergy/internal/dataprocessing"
	"caenergy/internal/exporter"
	"caenergy/internal/files"
	"caenergy/internal/infrastructure"
	"caenergy/pkg/contracts/domain"
)

func main() {
	dataDir := flag.String("data", "", "directory holding the EIA export (defaults to the configured data dir)")
	outDir := flag.String("out", "", "output directory for artifacts (defaults to the configured output dir)")
	configFile := flag.String("config", "", "config file path (defaults to config.yml)")
	flag.Parse()

	cfg, err := loadConfig(*configFile)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.Paths.DataDir = *dataDir
	}
	if *outDir != "" {
		cfg.Paths.OutputDir = *outDir
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	if err := cfg.EnsureDirectories(); err != nil {
		logger.Error("Failed to create required directories", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := infrastructure.WithRunID(context.Background(), uuid.New().String())

	logger.InfoContext(ctx, "starting analysis run",
		slog.String("data_dir", cfg.Paths.DataDir),
		slog.String("output_dir", cfg.Paths.OutputDir))

	result, records, err := run(ctx, cfg, logger)
	if err != nil {
		logger.ErrorContext(ctx, "analysis failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
		os.Exit(1)
	}

	printSummary(result, len(records))
}

// loadConfig loads configuration from the given file, or the default
// locations when none is given.
func loadConfig(configFile string) (*config.Config, error) {
	if configFile != "" {
		return config.LoadFromFile(configFile)
	}
	return config.Load()
}

// run executes the full pipeline: locate the export, parse it, reshape,
// summarize, derive insights and write every artifact. Nothing is written
// until the computation has fully succeeded.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*domain.AnalysisResult, []domain.TidyRecord, error) {
	discovery := files.NewDiscovery(cfg.Paths.DataDir)
	dataFile, err := discovery.ResolveDataFile(".")
	if err != nil {
		return nil, nil, err
	}

	logger.InfoContext(ctx, "resolved data file",
		slog.String("path", dataFile.Path),
		slog.Int64("size", dataFile.Size))

	parser := dataprocessing.NewParser(logger)
	var table *domain.RawTable
	switch strings.ToLower(filepath.Ext(dataFile.Name)) {
	case ".xlsx", ".xls":
		table, err = parser.ParseWorkbook(ctx, dataFile.Path)
	default:
		table, err = parser.ParseCSV(ctx, dataFile.Path)
	}
	if err != nil {
		return nil, nil, err
	}

	records := dataprocessing.Tidy(table)

	engine := dataprocessing.NewEngine(logger)
	stats, err := engine.Summarize(ctx, records)
	if err != nil {
		return nil, nil, err
	}

	insights := dataprocessing.GenerateInsights(stats, records)

	result := &domain.AnalysisResult{
		Overall:    stats.Overall,
		ByCategory: stats.ByCategory,
		Trends:     stats.Trends,
		Insights:   insights,
	}

	writer := exporter.NewWriter(cfg.Paths.OutputDir, logger)
	if _, err := writer.WriteTidyCSV(ctx, records); err != nil {
		return nil, nil, err
	}
	if _, err := writer.WriteAnalysisJSON(ctx, result); err != nil {
		return nil, nil, err
	}
	if _, err := writer.WriteWorkbook(ctx, records, stats); err != nil {
		return nil, nil, err
	}
	if _, err := writer.WriteEnergyMixPDF(ctx, records); err != nil {
		return nil, nil, err
	}

	logger.InfoContext(ctx, "analysis run completed",
		slog.Int("tidy_records", len(records)),
		slog.Int("categories", stats.Overall.CategoriesTracked),
		slog.String("period", stats.Trends.Period))

	return result, records, nil
}

// printSummary writes the human-readable run summary to stdout.
func printSummary(result *domain.AnalysisResult, recordCount int) {
	fmt.Println("California Electricity Generation Analysis")
	fmt.Println("==========================================")
	fmt.Printf("Period:              %s\n", result.Trends.Period)
	fmt.Printf("Years analyzed:      %d\n", result.Overall.YearsAnalyzed)
	fmt.Printf("Categories tracked:  %d\n", result.Overall.CategoriesTracked)
	fmt.Printf("Tidy records:        %d\n", recordCount)
	fmt.Printf("Overall growth:      %.1f%%\n", result.Trends.OverallGrowthRate)
	fmt.Printf("Dominant category:   %s\n", result.Trends.DominantCategory)
	fmt.Println()
	fmt.Println("Key findings:")
	for _, finding := range result.Insights.KeyFindings {
		fmt.Printf("  - %s\n", finding)
	}
	fmt.Println()
	fmt.Println("Notable trends:")
	for _, trend := range result.Insights.NotableTrends {
		fmt.Printf("  - %s\n", trend)
	}
}
