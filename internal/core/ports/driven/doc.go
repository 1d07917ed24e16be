// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
//
// These are the capabilities the pipeline core depends on: metadata
// persistence, vector similarity search, embedding generation, chat
// completion, and text extraction. Concrete backends are chosen once at
// startup via configuration and injected, never branched on at call sites.
package driven
