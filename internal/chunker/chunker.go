// Package chunker splits extracted text into overlapping chunks.
//
// The chunk size / overlap trade-off balances retrieval granularity
// against context coherence: smaller chunks improve match precision,
// overlap preserves continuity across boundaries.
package chunker

import "strings"

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// separators are tried in order when snapping a chunk boundary:
// paragraph break, then line break, then word break.
var separators = []string{"\n\n", "\n", " "}

// Chunker splits text into overlapping chunks, preferring to break on
// paragraph, line, and word boundaries in that order.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the target chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between consecutive chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a new chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't exceed chunk size
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// ChunkSize returns the configured target chunk size.
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Split chunks a single text. Whitespace-only input produces no chunks;
// everything else is covered by at least one chunk, with consecutive
// chunks overlapping so no content is lost at boundaries.
func (c *Chunker) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	textLen := len(text)
	if textLen <= c.chunkSize {
		return []string{text}
	}

	estimated := (textLen / (c.chunkSize - c.overlap)) + 1
	chunks := make([]string, 0, estimated)

	start := 0
	for start < textLen {
		end := start + c.chunkSize
		if end >= textLen {
			end = textLen
		} else {
			end = c.snap(text, start, end)
		}

		chunk := text[start:end]
		if strings.TrimSpace(chunk) != "" {
			chunks = append(chunks, chunk)
		}

		if end == textLen {
			break
		}

		next := end - c.overlap
		if next <= start {
			// Overlap would stall the window on very short chunks.
			next = start + 1
		}
		start = next
	}

	return chunks
}

// SplitAll chunks each section independently and returns all chunks in
// section order, so chunk indexes remain stable within the document.
func (c *Chunker) SplitAll(sections []string) []string {
	var chunks []string
	for _, section := range sections {
		chunks = append(chunks, c.Split(section)...)
	}
	return chunks
}

// snap moves a hard cut at end back to the nearest preferred boundary
// inside (start, end]. A boundary is only taken if it keeps the chunk at
// least half the target size; otherwise the next separator is tried, and
// finally the hard cut stands.
func (c *Chunker) snap(text string, start, end int) int {
	minEnd := start + c.chunkSize/2

	for _, sep := range separators {
		idx := strings.LastIndex(text[start:end], sep)
		if idx < 0 {
			continue
		}
		boundary := start + idx + len(sep)
		if boundary > minEnd {
			return boundary
		}
	}

	return end
}
