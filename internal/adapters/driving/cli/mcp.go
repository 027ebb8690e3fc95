package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/p7raneeth/docqa/internal/adapters/driving/mcp"
	"github.com/p7raneeth/docqa/internal/adapters/driving/watch"
)

var (
	mcpHTTPAddr string
	mcpPDFs     []string
	mcpWatchDir string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

Documents stay indexed for as long as the server runs. Assistants can
ingest more with the ingest_pdf tool, ask questions with the query tool and
read docqa://documents and docqa://stats.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Examples:
  # Stdio mode (default, for Claude Desktop)
  docqa mcp --pdf handbook.pdf

  # HTTP mode (for MCP Inspector, remote access)
  docqa mcp --http 127.0.0.1:8080

  # Ingest every PDF dropped into a folder
  docqa mcp --watch ~/papers

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "docqa": {
        "command": "/path/to/docqa",
        "args": ["mcp", "--watch", "/path/to/papers"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpHTTPAddr, "http", "", "serve streamable HTTP on this address instead of stdio")
	mcpCmd.Flags().StringArrayVar(&mcpPDFs, "pdf", nil, "PDF file to ingest at startup (repeatable)")
	mcpCmd.Flags().StringVar(&mcpWatchDir, "watch", "", "ingest PDFs already in, and later added to, this directory")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	engine, err := newEngine(ctx)
	if err != nil {
		return err
	}
	defer engine.Close()

	// cmd.Print* falls back to stderr, keeping stdout free for the protocol.
	if len(mcpPDFs) > 0 {
		if err := ingestFiles(cmd, engine.Ingest, mcpPDFs); err != nil {
			return err
		}
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Ingest:    engine.Ingest,
		Query:     engine.Query,
		Documents: engine.Ingest,
		Stats:     engine.Query,
	})
	if err != nil {
		return err
	}

	if mcpWatchDir != "" {
		watcher, err := watch.New(mcpWatchDir, engine.Ingest, watch.Options{
			FileType:       engine.Settings.Upload.FileType,
			IngestExisting: true,
		})
		if err != nil {
			return err
		}
		go func() {
			if err := watcher.Run(ctx); err != nil {
				cmd.PrintErrf("watcher stopped: %v\n", err)
			}
		}()
	}

	if mcpHTTPAddr != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://%s\n", mcpHTTPAddr)
		return server.RunHTTP(ctx, mcpHTTPAddr)
	}

	return server.Run(ctx)
}
