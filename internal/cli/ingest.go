package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"graphrag/internal/app"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [folder]",
	Short: "Ingest a folder of documents",
	Long: `Ingest runs one incremental pass over the folder: new and modified
sections are chunked, embedded and written to the stores, vanished files are
removed. Unchanged sections are skipped. Defaults to the configured docs
folder.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
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
		return fmt.Errorf("failed to ingest folder: %w", err)
	}

	fellBack := 0
	for _, res := range summary.Results {
		fellBack += res.FellBack
		if res.Skipped {
			cmd.Printf("  %-32s unchanged\n", res.FileName)
			continue
		}
		cmd.Printf("  %-32s new %d, modified %d, deleted %d, chunks %d\n",
			res.FileName, res.New, res.Modified, res.Deleted, res.ChunksWritten)
	}
	cmd.Printf("Processed %d of %d files (%d unchanged, %d failed, %d removed), wrote %d chunks\n",
		summary.Processed, summary.Files, summary.Skipped, summary.Failed, summary.Removed, summary.ChunksWritten)
	if fellBack > 0 {
		cmd.Printf("Fallback embeddings used for %d chunks\n", fellBack)
	}
	return nil
}
