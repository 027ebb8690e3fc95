// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - EmbeddingService: Turns text into fixed-dimension vectors
//   - CompletionService: Produces chat completions for rewriting and answering
//   - VectorIndex: Stores chunk vectors and answers similarity queries
//   - PDFExtractor: Extracts per-page text from PDF bytes
//   - PostProcessorPipeline: Chunks an extracted document
//   - DocumentRegistry: Tracks uploads through the ingestion lifecycle
//   - ConfigStore: Application configuration
//   - PromptStore: Customisable prompt templates
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or post-processor package
package driven
