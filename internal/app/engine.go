// Package app assembles the document QA services from settings.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/p7raneeth/docqa/internal/adapters/driven/ai"
	"github.com/p7raneeth/docqa/internal/adapters/driven/extract/pdf"
	"github.com/p7raneeth/docqa/internal/adapters/driven/storage/memory"
	vectormemory "github.com/p7raneeth/docqa/internal/adapters/driven/vector/memory"
	"github.com/p7raneeth/docqa/internal/core/domain"
	"github.com/p7raneeth/docqa/internal/core/ports/driven"
	"github.com/p7raneeth/docqa/internal/core/services"
	"github.com/p7raneeth/docqa/internal/logger"
	"github.com/p7raneeth/docqa/internal/postprocessors"
)

// Options overrides the adapters New would otherwise build.
type Options struct {
	// Extractor defaults to pdf.New().
	Extractor driven.PDFExtractor

	// Services defaults to ai.NewServices for the settings.
	Services *ai.Services

	// Prompts defaults to the built-in templates.
	Prompts driven.PromptStore
}

// Engine owns one vector index and the services that read and write it.
type Engine struct {
	Ingest   *services.IngestService
	Query    *services.QueryService
	Settings domain.AppSettings

	ai *ai.Services
}

// New builds an engine with an empty index.
func New(ctx context.Context, settings *domain.AppSettings, opts Options) (*Engine, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: settings are required", domain.ErrInvalidConfig)
	}

	aiServices := opts.Services
	if aiServices == nil {
		created, err := ai.NewServices(ctx, settings)
		if err != nil {
			return nil, err
		}
		aiServices = created
	}

	engine, err := build(settings, aiServices, opts)
	if err != nil {
		_ = aiServices.Close()
		return nil, err
	}
	return engine, nil
}

func build(settings *domain.AppSettings, aiServices *ai.Services, opts Options) (*Engine, error) {
	index, err := vectormemory.New(settings.Embedding.Dimensions)
	if err != nil {
		return nil, err
	}

	pipeline, err := postprocessors.NewDefaultPipeline(settings.RAG)
	if err != nil {
		return nil, err
	}

	extractor := opts.Extractor
	if extractor == nil {
		extractor = pdf.New()
	}

	timeout := settings.Requests.Timeout
	gateway := services.NewEmbeddingGateway(aiServices.Embedding, settings.Embedding.Dimensions, settings.Embedding.BatchSize, timeout)

	rewriter := services.NewQueryRewriter(aiServices.Completion, settings.RAG.RewriteWindow, timeout)
	generator := services.NewAnswerGenerator(aiServices.Completion, settings.LLM, settings.RAG.MaxHistoryMessages, timeout)
	if opts.Prompts != nil {
		rewriter.SetPromptStore(opts.Prompts)
		generator.SetPromptStore(opts.Prompts)
	}

	logger.Debug("engine: %d dims, pipeline %v", settings.Embedding.Dimensions, pipeline.Names())

	return &Engine{
		Ingest:   services.NewIngestService(extractor, pipeline, gateway, index, memory.NewDocumentRegistry(), settings.Upload),
		Query:    services.NewQueryService(rewriter, gateway, index, generator, settings.RAG),
		Settings: *settings,
		ai:       aiServices,
	}, nil
}

// Ping checks both providers are reachable within the request timeout.
func (e *Engine) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, e.Settings.Requests.Timeout)
	defer cancel()

	var errs []error
	if err := e.ai.Embedding.Ping(ctx); err != nil {
		errs = append(errs, fmt.Errorf("%w: embedding %s: %w", domain.ErrProviderUnavailable, e.ai.Embedding.ModelName(), err))
	}
	if err := e.ai.Completion.Ping(ctx); err != nil {
		errs = append(errs, fmt.Errorf("%w: llm %s: %w", domain.ErrProviderUnavailable, e.ai.Completion.ModelName(), err))
	}
	return errors.Join(errs...)
}

// Close releases the provider clients.
func (e *Engine) Close() error {
	return e.ai.Close()
}
