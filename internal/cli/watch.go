package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"graphrag/internal/app"
)

var watchCmd = &cobra.Command{
	Use:   "watch [folder]",
	Short: "Watch a folder and ingest changes",
	Long: `Watch runs one ingestion pass over the folder, then keeps watching it
and ingests files as they are created, written or removed. Runs until
interrupted. Defaults to the configured docs folder.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	folder := cfg.DocsFolder
	if len(args) == 1 {
		folder = args[0]
	}

	ctx := cmd.Context()
	logger := app.NewLogger(cfg.LogLevel, cfg.LogFormat)
	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	summary, err := a.Ingestor.IngestFolder(ctx, folder)
	if err != nil {
		return err
	}
	cmd.Printf("Initial pass: processed %d of %d files, wrote %d chunks\n",
		summary.Processed, summary.Files, summary.ChunksWritten)

	cmd.Printf("Watching %s for changes (ctrl-c to stop)\n", folder)
	if err := a.Ingestor.Watch(ctx, folder); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	cmd.Println("Stopped.")
	return nil
}
