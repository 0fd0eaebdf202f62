package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/zpam/spam-svm/pkg/pipeline"
)

var (
	reportData     string
	reportOut      string
	reportSeed     uint64
	reportConfig   string
	reportNoCharts bool
	reportProfile  bool
	reportReset    bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run the full analysis and classifier evaluation",
	Long: `Run every stage on a labeled CSV: normalization, term frequencies,
sentiment, document-term matrix, stratified split, linear SVM training and
evaluation on the held-out partition.

Charts are written as PNG files into the output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(reportConfig, reportData)
		if err != nil {
			return err
		}

		if reportOut != "" {
			cfg.Report.OutputDir = reportOut
		}
		if cmd.Flags().Changed("seed") {
			cfg.Split.Seed = reportSeed
		}
		if reportNoCharts {
			cfg.Report.Charts = false
		}
		if reportProfile {
			cfg.Report.Profile = true
		}

		closer, err := setupLogger(cfg)
		if err != nil {
			return err
		}
		defer closer.Close()

		cache, err := pipeline.OpenCache(cfg)
		if err != nil {
			return fmt.Errorf("failed to open cache: %v", err)
		}
		if cache != nil {
			defer cache.Close()
		}

		ctx, cancel := signalContext()
		defer cancel()

		fmt.Printf("🔬 ZPAM SVM Report\n")
		fmt.Printf("═══════════════════════════════════════\n")
		fmt.Printf("📁 Dataset: %s\n", cfg.Dataset.Path)
		fmt.Printf("🎲 Seed: %d\n", cfg.Split.Seed)
		if cfg.Report.Charts {
			fmt.Printf("🖼️  Output: %s\n", cfg.Report.OutputDir)
		}
		fmt.Printf("\n")

		start := time.Now()
		p := pipeline.New(cfg, slog.Default()).WithCache(cache)
		if reportReset {
			if err := p.ResetCache(ctx); err != nil {
				return fmt.Errorf("failed to reset cache: %v", err)
			}
			fmt.Printf("🧹 Normalization cache cleared\n\n")
		}
		result, err := p.Run(ctx)
		if err != nil {
			return fmt.Errorf("report failed: %v", err)
		}

		result.Print(os.Stdout)

		if cfg.Report.Profile {
			p.Profiler().PrintReport(os.Stdout)
			fmt.Printf("\n")
		}

		fmt.Printf("🎉 Report complete in %v\n", time.Since(start).Round(time.Millisecond))
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportData, "data", "d", "", "Labeled CSV file (overrides config)")
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "Chart output directory (overrides config)")
	reportCmd.Flags().Uint64Var(&reportSeed, "seed", 1234, "Split seed (overrides config)")
	reportCmd.Flags().StringVarP(&reportConfig, "config", "c", "", "Configuration file path")
	reportCmd.Flags().BoolVar(&reportNoCharts, "no-charts", false, "Skip chart rendering")
	reportCmd.Flags().BoolVar(&reportProfile, "profile", false, "Print stage timings")
	reportCmd.Flags().BoolVar(&reportReset, "reset-cache", false, "Clear cached normalizations before running")
}
