package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/p7raneeth/docqa/internal/core/domain"
)

var (
	askPDFs []string
	askTopK int
	askJSON bool
)

var askCmd = &cobra.Command{
	Use:   "ask --pdf FILE QUESTION",
	Short: "Answer one question about PDFs",
	Long: `Ingests the given PDFs, then answers the question using only the
retrieved chunks. Sources are listed with their page and similarity score.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringArrayVar(&askPDFs, "pdf", nil, "PDF file to ingest (repeatable)")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "chunks to retrieve (0 = configured default)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the response as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if len(askPDFs) == 0 {
		return errors.New("at least one --pdf is required")
	}

	engine, err := newEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer engine.Close()

	if err := ingestFiles(cmd, engine.Ingest, askPDFs); err != nil {
		return err
	}

	resp, err := engine.Query.Query(cmd.Context(), domain.QueryRequest{
		Query: strings.Join(args, " "),
		TopK:  askTopK,
	})
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if askJSON {
		return outputAnswerJSON(cmd, resp)
	}
	outputAnswer(cmd, resp)
	return nil
}

func outputAnswerJSON(cmd *cobra.Command, resp *domain.QueryResponse) error {
	out := *resp
	out.Sources = make([]domain.RetrievalResult, len(resp.Sources))
	for i, src := range resp.Sources {
		src.Content = src.Preview(domain.PreviewLength)
		out.Sources[i] = src
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAnswer(cmd *cobra.Command, resp *domain.QueryResponse) {
	cmd.Println()
	cmd.Println(resp.Answer)

	if resp.ResolvedQuery != "" && resp.ResolvedQuery != resp.Query {
		cmd.Printf("\n(searched for: %s)\n", resp.ResolvedQuery)
	}

	if len(resp.Sources) == 0 {
		return
	}
	cmd.Println("\nSources:")
	for i, src := range resp.Sources {
		cmd.Printf("  [%d] %s (score %.3f)\n", i+1, sourceLabel(src), src.Score)
		cmd.Printf("      %s\n", strings.ReplaceAll(src.Preview(domain.PreviewLength), "\n", " "))
	}
}

func sourceLabel(src domain.RetrievalResult) string {
	name := src.Filename
	if name == "" {
		name = "unknown"
	}
	if src.PageNumber != nil {
		return fmt.Sprintf("%s, page %d", name, *src.PageNumber)
	}
	return name
}
