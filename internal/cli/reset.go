package cli

import (
	"bufio"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"graphrag/internal/tracker"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the section cache",
	Long: `Reset clears the section cache. The stores keep their data, but the
next ingestion run sees every section as new and rewrites everything.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "skip the confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if !resetYes {
		cmd.Printf("Clear the section cache at %s? [y/N]: ", cfg.CachePath)
		reader := bufio.NewReader(cmd.InOrStdin())
		line, _ := reader.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
		default:
			cmd.Println("Aborted.")
			return nil
		}
	}

	track := tracker.New(cfg.CachePath, slog.Default())
	track.Load()
	if err := track.Reset(); err != nil {
		return fmt.Errorf("failed to reset cache: %w", err)
	}

	cmd.Println("Section cache cleared.")
	return nil
}
