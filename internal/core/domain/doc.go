// Package domain defines the core business entities for the knowledge base.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: The unit of embedding and retrieval
//   - DocumentRecord: Provenance metadata for an ingested file
//   - QueryResponse: The structured answer returned to the caller
//   - Citation: Metadata identifying which chunks supported an answer
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
