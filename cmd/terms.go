package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/zpam/spam-svm/pkg/charts"
	"github.com/zpam/spam-svm/pkg/corpus"
	"github.com/zpam/spam-svm/pkg/pipeline"
)

var (
	termsData     string
	termsTop      int
	termsSparsity float64
	termsConfig   string
	termsChart    bool
)

var termsCmd = &cobra.Command{
	Use:   "terms",
	Short: "Show term frequencies and document-term matrix statistics",
	Long: `Normalize every message and print the most frequent terms along with
the document-term matrix summary before and after sparse term removal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(termsConfig, termsData)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("sparsity") {
			cfg.Vocabulary.MaxSparsity = termsSparsity
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %v", err)
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

		prepared, err := pipeline.New(cfg, slog.Default()).WithCache(cache).Prepare(ctx)
		if err != nil {
			return fmt.Errorf("failed to prepare corpus: %v", err)
		}

		freqs := prepared.Full.TermFrequencies()
		corpus.PrintTop(os.Stdout, freqs, termsTop)

		fmt.Printf("\n📚 Full matrix:\n")
		prepared.Full.PrintStats(os.Stdout)
		fmt.Printf("\n✂️  After removing terms sparser than %.2f:\n", cfg.Vocabulary.MaxSparsity)
		prepared.Pruned.PrintStats(os.Stdout)

		if termsChart {
			path := filepath.Join(cfg.Report.OutputDir, charts.TopTermsFile)
			if err := charts.TopTerms(path, freqs, termsTop); err != nil {
				return fmt.Errorf("failed to render chart: %v", err)
			}
			fmt.Printf("\n🖼️  Chart written to: %s\n", path)
		}

		return nil
	},
}

func init() {
	termsCmd.Flags().StringVarP(&termsData, "data", "d", "", "Labeled CSV file (overrides config)")
	termsCmd.Flags().IntVarP(&termsTop, "top", "n", 20, "Number of terms to show")
	termsCmd.Flags().Float64Var(&termsSparsity, "sparsity", 0.99, "Maximum sparsity of kept terms (overrides config)")
	termsCmd.Flags().StringVarP(&termsConfig, "config", "c", "", "Configuration file path")
	termsCmd.Flags().BoolVar(&termsChart, "chart", false, "Also write the top terms bar chart")
}
