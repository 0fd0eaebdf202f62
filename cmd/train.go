package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/zpam/spam-svm/pkg/dataset"
	"github.com/zpam/spam-svm/pkg/evaluation"
	"github.com/zpam/spam-svm/pkg/pipeline"
	"github.com/zpam/spam-svm/pkg/split"
	"github.com/zpam/spam-svm/pkg/svm"
)

// modelConfigFile stores the preprocessing settings next to a saved model
const modelConfigFile = "config.yaml"

var (
	trainData    string
	trainModel   string
	trainConfig  string
	trainHoldout bool
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a linear SVM and save it",
	Long: `Train the linear SVM on a labeled CSV and save the model directory.

By default every message is used for training. With --holdout the stratified
split is applied and the model is evaluated on the held-out partition.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(trainConfig, trainData)
		if err != nil {
			return err
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

		fmt.Printf("🧠 ZPAM SVM Training\n")
		fmt.Printf("═══════════════════════════════════════\n")
		fmt.Printf("📁 Dataset: %s\n", cfg.Dataset.Path)
		fmt.Printf("💾 Model directory: %s\n", trainModel)
		if trainHoldout {
			fmt.Printf("✂️  Holdout: %.0f%% train, seed %d\n", cfg.Split.TrainRatio*100, cfg.Split.Seed)
		}
		fmt.Printf("\n")

		start := time.Now()
		p := pipeline.New(cfg, slog.Default()).WithCache(cache)

		prepared, err := p.Prepare(ctx)
		if err != nil {
			return fmt.Errorf("failed to prepare corpus: %v", err)
		}

		sentimentScores, err := p.Sentiment(ctx, prepared.Dataset)
		if err != nil {
			return fmt.Errorf("failed to score sentiment: %v", err)
		}

		table, err := p.Features(prepared, sentimentScores)
		if err != nil {
			return fmt.Errorf("failed to build features: %v", err)
		}

		rows := make([]int, table.NumRows())
		for i := range rows {
			rows[i] = i
		}

		var part *split.Partition
		if trainHoldout {
			part, err = split.Stratified(table.Labels(), cfg.Split.TrainRatio, cfg.Split.Seed)
			if err != nil {
				return fmt.Errorf("failed to split dataset: %v", err)
			}
			rows = part.Train
		}

		classifier, err := svm.Train(ctx, table, rows, pipeline.SVMParams(cfg))
		if err != nil {
			return fmt.Errorf("failed to train classifier: %v", err)
		}
		duration := time.Since(start)

		if err := classifier.Save(trainModel); err != nil {
			return fmt.Errorf("failed to save model: %v", err)
		}
		if err := cfg.SaveConfig(filepath.Join(trainModel, modelConfigFile)); err != nil {
			return fmt.Errorf("failed to save model config: %v", err)
		}

		fmt.Printf("🎉 Training Complete!\n")
		fmt.Printf("📊 Messages: %d, trained on %d\n", prepared.Dataset.Len(), classifier.TrainRows())
		fmt.Printf("🧮 Features: %d columns\n", len(classifier.Columns()))
		fmt.Printf("⏱️  Time taken: %v\n", duration.Round(time.Millisecond))
		fmt.Printf("💾 Model saved to: %s\n", trainModel)

		if part != nil {
			predicted, err := classifier.PredictRows(table, part.Test)
			if err != nil {
				return fmt.Errorf("failed to predict holdout: %v", err)
			}
			actual := make([]dataset.Category, len(part.Test))
			for i, r := range part.Test {
				actual[i] = table.Row(r).Label
			}
			cm, err := evaluation.NewConfusionMatrix(actual, predicted)
			if err != nil {
				return fmt.Errorf("failed to evaluate holdout: %v", err)
			}

			fmt.Printf("\n")
			cm.Print(os.Stdout)
		}

		return nil
	},
}

func init() {
	trainCmd.Flags().StringVarP(&trainData, "data", "d", "", "Labeled CSV file (overrides config)")
	trainCmd.Flags().StringVarP(&trainModel, "model", "m", "model", "Directory to save the model into")
	trainCmd.Flags().StringVarP(&trainConfig, "config", "c", "", "Configuration file path")
	trainCmd.Flags().BoolVar(&trainHoldout, "holdout", false, "Train on the split's training partition and evaluate on the rest")
}
