package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zpam/spam-svm/pkg/dataset"
	"github.com/zpam/spam-svm/pkg/sentiment"
)

var (
	sentimentData   string
	sentimentConfig string
)

var sentimentCmd = &cobra.Command{
	Use:   "sentiment",
	Short: "Show polarity and emotion totals",
	Long: `Score every message for polarity and emotions and print the totals,
percentages and a per-category polarity summary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(sentimentConfig, sentimentData)
		if err != nil {
			return err
		}

		closer, err := setupLogger(cfg)
		if err != nil {
			return err
		}
		defer closer.Close()

		ctx, cancel := signalContext()
		defer cancel()

		ds, err := dataset.Load(cfg.Dataset.Path, dataset.Columns{
			Label: cfg.Dataset.LabelColumn,
			Text:  cfg.Dataset.TextColumn,
		})
		if err != nil {
			return fmt.Errorf("failed to load dataset: %v", err)
		}

		scores, err := sentiment.NewScorer(nil).ScoreAll(ctx, ds.Texts())
		if err != nil {
			return fmt.Errorf("failed to score sentiment: %v", err)
		}

		fmt.Printf("📁 Dataset: %s (%d messages)\n\n", cfg.Dataset.Path, ds.Len())

		sentiment.Summarize(scores).PrintSummary(os.Stdout)
		fmt.Printf("\n")
		sentiment.PrintEmotions(os.Stdout, sentiment.Totals(scores))

		byCategory := make(map[dataset.Category][]sentiment.Scores)
		for i, msg := range ds.Messages {
			byCategory[msg.Category] = append(byCategory[msg.Category], scores[i])
		}

		fmt.Printf("\n📊 Polarity by category:\n")
		for _, c := range dataset.Categories {
			s := sentiment.Summarize(byCategory[c])
			fmt.Printf("  %-5s n=%-6d mean=%.4f median=%.4f\n", c, s.Count, s.Mean, s.Median)
		}

		return nil
	},
}

func init() {
	sentimentCmd.Flags().StringVarP(&sentimentData, "data", "d", "", "Labeled CSV file (overrides config)")
	sentimentCmd.Flags().StringVarP(&sentimentConfig, "config", "c", "", "Configuration file path")
}
