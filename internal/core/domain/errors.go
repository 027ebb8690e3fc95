package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Callers classify failures with errors.Is against these.
var (
	// ErrValidation indicates a request was rejected before any work was done.
	ErrValidation = errors.New("validation failed")

	// ErrExternalService indicates an upstream embedding or completion call failed,
	// returned a malformed payload, or timed out.
	ErrExternalService = errors.New("external service failure")

	// ErrShapeMismatch indicates parallel inputs to the vector index disagree
	// in length, or a vector does not have the index dimension.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrRetrievalFailure indicates a query could not retrieve context.
	ErrRetrievalFailure = errors.New("retrieval failure")

	// ErrInvalidConfig indicates the configuration cannot be used.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")
)

// Validation errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = fmt.Errorf("%w: invalid input", ErrValidation)

	// ErrUnsupportedFileType indicates the upload is not of the accepted type.
	ErrUnsupportedFileType = fmt.Errorf("%w: unsupported file type", ErrValidation)

	// ErrFileTooLarge indicates the upload exceeds the configured maximum size.
	ErrFileTooLarge = fmt.Errorf("%w: file too large", ErrValidation)

	// ErrNoTextExtracted indicates every page of the document was empty.
	ErrNoTextExtracted = fmt.Errorf("%w: no text extracted from PDF", ErrValidation)
)

// External service errors.
var (
	// ErrEmbeddingFailure indicates the embedding provider failed.
	ErrEmbeddingFailure = fmt.Errorf("%w: embedding failed", ErrExternalService)

	// ErrGenerationFailure indicates the completion provider failed to answer.
	ErrGenerationFailure = fmt.Errorf("%w: generation failed", ErrExternalService)

	// ErrProviderUnavailable indicates a provider is not configured or unreachable.
	ErrProviderUnavailable = fmt.Errorf("%w: provider unavailable", ErrExternalService)
)
