package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zpam/spam-svm/pkg/config"
)

var rootCmd = &cobra.Command{
	Use:   "zpam-svm",
	Short: "ZPAM SVM - spam/ham text mining and linear SVM classifier",
	Long: `ZPAM SVM analyzes a labeled CSV of ham and spam messages.

It normalizes every message, reports term frequencies and sentiment,
builds a document-term matrix, trains a linear SVM on a stratified
80/20 split and prints the confusion matrix with accuracy and Kappa.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("ZPAM SVM - spam/ham classifier")
		fmt.Println("Use 'zpam-svm --help' for usage information")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(termsCmd)
	rootCmd.AddCommand(sentimentCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(cacheCmd)
}

// loadConfig loads the config file (or defaults) and applies a dataset override
func loadConfig(configPath, dataPath string) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %v", err)
	}

	if dataPath != "" {
		cfg.Dataset.Path = dataPath
	}

	return cfg, nil
}

// setupLogger installs the configured logger as the slog default
func setupLogger(cfg *config.Config) (io.Closer, error) {
	logger, closer, err := cfg.Logging.NewLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %v", err)
	}
	slog.SetDefault(logger)
	return closer, nil
}

// signalContext is canceled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
