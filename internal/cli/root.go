// Package cli implements the ragctl management commands.
package cli

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"graphrag/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "ragctl",
	Short: "Manage the document knowledge base",
	Long: `ragctl manages the document ingestion pipeline: inspect or clear the
section cache, run one-shot folder ingestion, or watch a folder and ingest
changes as they happen.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a .env file loaded before the environment")
}

// Execute runs ragctl with the given base context. Cancelling the context
// stops long-running commands such as watch.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// loadConfig loads the --config file if given, then the environment.
// Variables already set in the environment win over file values.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		if err := godotenv.Load(cfgFile); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", cfgFile, err)
		}
	}
	return config.Load()
}
