// Package cli provides the docqa command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/p7raneeth/docqa/internal/app"
	"github.com/p7raneeth/docqa/internal/core/domain"
	"github.com/p7raneeth/docqa/internal/core/ports/driving"
	"github.com/p7raneeth/docqa/internal/logger"
)

// EngineFactory builds an engine with an empty index from settings.
type EngineFactory func(ctx context.Context, settings *domain.AppSettings) (*app.Engine, error)

// SettingsFactory opens the settings service. With noConfig set it must not
// read or write the config file.
type SettingsFactory func(noConfig bool) (driving.SettingsService, error)

var (
	version = "dev"

	verbose  bool
	skipPing bool
	noConfig bool

	settingsFactory SettingsFactory
	settingsService driving.SettingsService
	engineFactory   EngineFactory
)

var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Ask questions about PDF documents",
	Long: `docqa extracts text from PDFs, indexes it in memory and answers
questions with a language model, citing the chunks it used.

The index lives for the lifetime of one command. Use 'docqa chat' for a
conversation or 'docqa mcp' to keep documents loaded for an AI assistant.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if settingsFactory == nil {
			return nil
		}
		s, err := settingsFactory(noConfig)
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		settingsService = s
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline stages to stderr")
	rootCmd.PersistentFlags().BoolVar(&skipPing, "skip-ping", false, "do not check providers before starting")
	rootCmd.PersistentFlags().BoolVar(&noConfig, "no-config", false, "ignore ~/.docqa/config.toml; use defaults and environment only")
}

// SetVersion sets the version printed by 'docqa version'.
func SetVersion(v string) {
	version = v
}

// SetSettingsService sets the settings service used by every command.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// SetSettingsFactory defers opening settings until flags are parsed.
// It takes precedence over SetSettingsService.
func SetSettingsFactory(f SettingsFactory) {
	settingsFactory = f
}

// SetEngineFactory sets how commands build their engine.
func SetEngineFactory(f EngineFactory) {
	engineFactory = f
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// newEngine loads and validates settings, then builds and checks an engine.
func newEngine(ctx context.Context) (*app.Engine, error) {
	if settingsService == nil {
		return nil, errors.New("settings service not configured")
	}
	if engineFactory == nil {
		return nil, errors.New("engine not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	if err := settingsService.Validate(); err != nil {
		return nil, fmt.Errorf("%w\nRun 'docqa settings' to fix configuration issues", err)
	}

	engine, err := engineFactory(ctx, settings)
	if err != nil {
		return nil, err
	}

	if !skipPing {
		if err := engine.Ping(ctx); err != nil {
			_ = engine.Close()
			return nil, fmt.Errorf("%w\nRun 'docqa settings check' for details, or pass --skip-ping", err)
		}
	}
	return engine, nil
}

// ingestFiles ingests every path, reporting each outcome.
// It returns an error naming how many files failed.
func ingestFiles(cmd *cobra.Command, ingest driving.IngestService, paths []string) error {
	failed := 0
	for _, path := range paths {
		result, err := ingest.IngestFile(cmd.Context(), path)
		if err != nil {
			failed++
			cmd.PrintErrf("Failed %s: %v\n", path, err)
			continue
		}
		cmd.Printf("Ingested %s: %d pages, %d chunks\n", result.Filename, result.Pages, result.TotalChunks)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to ingest", failed, len(paths))
	}
	return nil
}
