// Package services implements the driving port interfaces.
// Services contain the retrieval-augmented core: ingestion, embedding,
// query rewriting, answer generation and query orchestration. They call
// out only through driven ports, so every provider can be swapped or faked.
package services
