package cli

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/p7raneeth/docqa/internal/core/domain"
	"github.com/p7raneeth/docqa/internal/core/ports/driving"
)

var chatPDFs []string

var chatCmd = &cobra.Command{
	Use:   "chat --pdf FILE",
	Short: "Hold a conversation about PDFs",
	Long: `Ingests the given PDFs and reads questions line by line. Follow-up
questions are rewritten against the conversation so far before retrieval.

Commands:
  /reset   forget the conversation
  /exit    quit (so does end of input)`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringArrayVar(&chatPDFs, "pdf", nil, "PDF file to ingest (repeatable)")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if len(chatPDFs) == 0 {
		return errors.New("at least one --pdf is required")
	}

	engine, err := newEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer engine.Close()

	if err := ingestFiles(cmd, engine.Ingest, chatPDFs); err != nil {
		return err
	}

	in := cmd.InOrStdin()
	return chatLoop(cmd, engine.Query, in, isTerminal(in))
}

// chatLoop answers one question per input line. The prompt and banner are
// only printed when a person is typing.
func chatLoop(cmd *cobra.Command, query driving.QueryService, in io.Reader, interactive bool) error {
	ctx := cmd.Context()
	lines := readLines(in)
	var history []domain.Message

	if interactive {
		cmd.Println("\nAsk a question. /reset clears the conversation, /exit quits.")
	}

	for {
		if interactive {
			cmd.Print("> ")
		}

		var line string
		select {
		case <-ctx.Done():
			return nil
		case next, ok := <-lines:
			if !ok {
				return nil
			}
			line = strings.TrimSpace(next)
		}

		switch line {
		case "":
			continue
		case "/exit", "/quit":
			return nil
		case "/reset":
			history = nil
			cmd.Println("Conversation cleared.")
			continue
		}

		resp, err := query.Query(ctx, domain.QueryRequest{Query: line, History: history})
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			cmd.PrintErrf("Error: %v\n", err)
			continue
		}

		outputAnswer(cmd, resp)
		cmd.Println()

		history = append(history,
			domain.Message{Role: domain.RoleUser, Content: line},
			domain.Message{Role: domain.RoleAssistant, Content: resp.Answer},
		)
	}
}

// readLines streams lines from r until EOF or a read error.
func readLines(r io.Reader) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			out <- scanner.Text()
		}
	}()
	return out
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
