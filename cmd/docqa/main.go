// Command docqa answers questions about PDF documents.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/p7raneeth/docqa/internal/adapters/driven/ai"
	"github.com/p7raneeth/docqa/internal/adapters/driven/config/env"
	"github.com/p7raneeth/docqa/internal/adapters/driven/config/file"
	"github.com/p7raneeth/docqa/internal/adapters/driven/storage/memory"
	"github.com/p7raneeth/docqa/internal/adapters/driving/cli"
	"github.com/p7raneeth/docqa/internal/app"
	"github.com/p7raneeth/docqa/internal/core/domain"
	"github.com/p7raneeth/docqa/internal/core/ports/driven"
	"github.com/p7raneeth/docqa/internal/core/ports/driving"
	"github.com/p7raneeth/docqa/internal/core/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetSettingsFactory(openSettings)
	cli.SetEngineFactory(newEngine)

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// openSettings layers the environment over the config file, or over an
// empty in-memory store when noConfig is set.
func openSettings(noConfig bool) (driving.SettingsService, error) {
	var base driven.ConfigStore
	if noConfig {
		base = memory.NewConfigStore()
	} else {
		store, err := file.NewConfigStore("")
		if err != nil {
			return nil, err
		}
		base = store
	}

	store, err := env.NewStore(base, env.Options{DotEnvFiles: []string{".env"}})
	if err != nil {
		return nil, err
	}
	return services.NewSettingsService(store, ai.NewConfigValidator()), nil
}

func newEngine(ctx context.Context, settings *domain.AppSettings) (*app.Engine, error) {
	prompts, err := file.NewPromptStore("", services.DefaultPrompts())
	if err != nil {
		return nil, err
	}
	return app.New(ctx, settings, app.Options{Prompts: prompts})
}
