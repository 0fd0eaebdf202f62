package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zpam/spam-svm/pkg/config"
	"github.com/zpam/spam-svm/pkg/pipeline"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long:  `Generate and manage ZPAM SVM configuration files`,
}

var configGenCmd = &cobra.Command{
	Use:   "generate [config-file]",
	Short: "Generate default configuration file",
	Long:  `Generate a configuration file holding every default value`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := "config.yaml"
		if len(args) > 0 {
			configPath = args[0]
		}

		if _, err := os.Stat(configPath); err == nil {
			overwrite, _ := cmd.Flags().GetBool("force")
			if !overwrite {
				return fmt.Errorf("config file already exists: %s (use --force to overwrite)", configPath)
			}
		}

		if err := config.DefaultConfig().SaveConfig(configPath); err != nil {
			return fmt.Errorf("failed to save config: %v", err)
		}

		fmt.Printf("✅ Configuration file generated: %s\n", configPath)
		fmt.Printf("📝 Edit the file to customize preprocessing and training\n")
		fmt.Printf("🚀 Use 'zpam-svm report --config %s' to use the configuration\n", configPath)

		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate [config-file]",
	Short: "Validate configuration file",
	Long:  `Validate a configuration file for syntax and logical errors`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := args[0]

		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("❌ Configuration validation failed: %v", err)
		}

		warnings := validateConfigLogic(cfg)

		fmt.Printf("✅ Configuration is valid: %s\n", configPath)

		if len(warnings) > 0 {
			fmt.Printf("\n⚠️  Warnings:\n")
			for _, warning := range warnings {
				fmt.Printf("  - %s\n", warning)
			}
		}

		fmt.Printf("\n📊 Configuration Summary:\n")
		fmt.Printf("  Dataset: %s\n", cfg.Dataset.Path)
		fmt.Printf("  Max sparsity: %.2f\n", cfg.Vocabulary.MaxSparsity)
		fmt.Printf("  Train ratio: %.2f (seed %d)\n", cfg.Split.TrainRatio, cfg.Split.Seed)
		fmt.Printf("  SVM cost: %g\n", cfg.SVM.Cost)
		fmt.Printf("  Cache backend: %s\n", cfg.Cache.Backend)

		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show [config-file]",
	Short: "Show current configuration",
	Long:  `Display the current configuration with all values`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var cfg *config.Config
		var err error

		if len(args) > 0 {
			cfg, err = config.LoadConfig(args[0])
			if err != nil {
				return fmt.Errorf("failed to load config: %v", err)
			}
			fmt.Printf("Configuration: %s\n\n", args[0])
		} else {
			cfg = config.DefaultConfig()
			fmt.Printf("Default Configuration:\n\n")
		}

		fmt.Printf("📁 Dataset:\n")
		fmt.Printf("  Path: %s\n", cfg.Dataset.Path)
		fmt.Printf("  Columns: label=%s text=%s\n", cfg.Dataset.LabelColumn, cfg.Dataset.TextColumn)

		fmt.Printf("\n🔤 Preprocessing:\n")
		fmt.Printf("  Stopwords: %s\n", cfg.Preprocess.StopwordSource)
		fmt.Printf("  Custom stopwords: %s\n", strings.Join(cfg.Preprocess.CustomStopwords, ", "))
		fmt.Printf("  Stemming: %v\n", cfg.Preprocess.Stem)
		fmt.Printf("  Max sparsity: %.2f\n", cfg.Vocabulary.MaxSparsity)

		fmt.Printf("\n🧠 Training:\n")
		fmt.Printf("  Train ratio: %.2f\n", cfg.Split.TrainRatio)
		fmt.Printf("  Seed: %d\n", cfg.Split.Seed)
		fmt.Printf("  Cost: %g\n", cfg.SVM.Cost)
		fmt.Printf("  Scale features: %v\n", cfg.SVM.Scale)
		fmt.Printf("  Features: %s\n", pipeline.FeatureMode(cfg.Features.IncludeSentiment))

		fmt.Printf("\n📊 Report:\n")
		fmt.Printf("  Output: %s\n", cfg.Report.OutputDir)
		fmt.Printf("  Charts: %v\n", cfg.Report.Charts)
		fmt.Printf("  Top terms: %d\n", cfg.Report.TopTerms)
		fmt.Printf("  Sentiment: %v\n", cfg.Sentiment.Enabled)

		fmt.Printf("\n⚡ Cache:\n")
		fmt.Printf("  Backend: %s\n", cfg.Cache.Backend)
		if cfg.Cache.Backend == "redis" {
			fmt.Printf("  Redis: %s (db %d, ttl %s)\n", cfg.Cache.Redis.RedisURL, cfg.Cache.Redis.DatabaseNum, cfg.Cache.Redis.TTL)
		}

		return nil
	},
}

// validateConfigLogic flags settings that are valid but probably unintended
func validateConfigLogic(cfg *config.Config) []string {
	var warnings []string

	if cfg.Vocabulary.MaxSparsity < 0.9 {
		warnings = append(warnings, "Max sparsity below 0.90 keeps very few terms")
	}

	if cfg.Split.TrainRatio < 0.5 {
		warnings = append(warnings, "Train ratio below 0.5 leaves little data for training")
	}

	if !cfg.Preprocess.Stem {
		warnings = append(warnings, "Stemming is disabled - vocabulary will be larger")
	}

	if cfg.Features.IncludeSentiment && !cfg.SVM.Scale {
		warnings = append(warnings, "Sentiment columns without scaling mix very different value ranges")
	}

	if cfg.Report.Charts && cfg.Report.OutputDir == "" {
		warnings = append(warnings, "Charts enabled with an empty output directory - files go to the working directory")
	}

	return warnings
}

func init() {
	configCmd.AddCommand(configGenCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)

	configGenCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
