// Package domain defines the core business entities for docqa.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An uploaded PDF with its extracted pages
//   - Chunk: A retrievable unit of page text with its metadata
//   - Message: One turn of caller-owned conversation history
//   - RetrievalResult: A ranked chunk returned by the vector index
//   - AppSettings: The effective configuration of the pipeline
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
