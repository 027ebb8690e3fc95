package cli

import (
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest FILE...",
	Short: "Ingest PDFs and report chunk counts",
	Long: `Extracts, chunks, embeds and indexes each PDF into a fresh index, then
prints what was indexed. Useful to check that files extract cleanly and that
the embedding provider works before asking questions.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	engine, err := newEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer engine.Close()

	ingestErr := ingestFiles(cmd, engine.Ingest, args)

	stats := engine.Query.Stats(cmd.Context())
	cmd.Printf("\nIndex: %d chunks, %d vectors\n", stats.TotalChunks, stats.IndexedVectors)
	return ingestErr
}
