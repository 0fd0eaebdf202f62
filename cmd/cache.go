package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/zpam/spam-svm/pkg/pipeline"
)

var cacheConfig string

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Normalization cache management",
	Long:  `Manage the cache of normalized message text shared by report, train and terms.`,
}

var cacheResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every cached normalization",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cacheConfig, "")
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
		if cache == nil {
			fmt.Printf("ℹ️  Cache backend is %q, nothing to reset\n", cfg.Cache.Backend)
			return nil
		}
		defer cache.Close()

		ctx, cancel := signalContext()
		defer cancel()

		if err := pipeline.New(cfg, slog.Default()).WithCache(cache).ResetCache(ctx); err != nil {
			return fmt.Errorf("failed to reset cache: %v", err)
		}

		fmt.Printf("✅ Cleared %s cache\n", cfg.Cache.Backend)
		return nil
	},
}

func init() {
	cacheCmd.PersistentFlags().StringVarP(&cacheConfig, "config", "c", "", "Configuration file path")
	cacheCmd.AddCommand(cacheResetCmd)
}
