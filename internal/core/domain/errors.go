package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file type outside the supported set.
	// Validation fails before any I/O is attempted.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrMissingConfig indicates required configuration is absent.
	// Raised only at startup; misconfiguration must not silently
	// degrade to a wrong model or backend.
	ErrMissingConfig = errors.New("missing required configuration")

	// ErrUnsupportedModel indicates an unknown provider/model pair.
	ErrUnsupportedModel = errors.New("unsupported provider or model")

	// ErrRateLimited indicates the API rate limit was exceeded and
	// bounded retries were exhausted.
	ErrRateLimited = errors.New("rate limited")

	// ErrExternalService indicates an embedding, vector search, or LLM
	// call failed. Pipelines convert it into a non-success result.
	ErrExternalService = errors.New("external service error")

	// ErrEmptyDocument indicates extraction produced no content.
	ErrEmptyDocument = errors.New("no content extracted from document")
)
