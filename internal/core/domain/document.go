package domain

import (
	"crypto/md5" //nolint:gosec // content fingerprint, not a security boundary
	"encoding/hex"
	"path/filepath"
	"strings"
	"time"
)

// Category is a coarse classification tag used to scope retrieval.
type Category string

// Available document categories.
const (
	CategoryGeneral   Category = "general"
	CategoryHR        Category = "hr"
	CategoryPolicies  Category = "policies"
	CategorySOPs      Category = "sops"
	CategoryTechnical Category = "technical"
)

// IsValid returns true if the category is recognised.
func (c Category) IsValid() bool {
	switch c {
	case CategoryGeneral, CategoryHR, CategoryPolicies, CategorySOPs, CategoryTechnical:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (c Category) String() string {
	return string(c)
}

// ParseCategory normalises a category string, defaulting to general.
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return CategoryGeneral
	}
	return c
}

// SupportedExtensions lists the file extensions the ingestion pipeline accepts.
var SupportedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".txt":  true,
}

// Chunk is a bounded slice of a source document's text.
// It is the unit of embedding and retrieval, immutable once stored.
type Chunk struct {
	// Content is the chunk text.
	Content string

	// Filename is the original uploaded file name.
	Filename string

	// ChunkIndex is the stable, 0-based position within the document.
	ChunkIndex int

	// Category is the classification tag the file was uploaded under.
	Category Category

	// UploadTimestamp is when the owning file was ingested.
	UploadTimestamp time.Time

	// DocumentID is a deterministic hash of content + filename.
	// Re-ingestion of identical content produces the same ID.
	DocumentID string

	// ChunkSize is len(Content) in bytes, recorded at ingestion time.
	ChunkSize int
}

// DocumentRecord summarises one successfully ingested file.
type DocumentRecord struct {
	// ID is the metadata store identifier.
	ID string `json:"id"`

	// Filename is the original uploaded file name.
	Filename string `json:"filename"`

	// Category is the upload category.
	Category Category `json:"category"`

	// TotalChunks equals len(DocumentIDs).
	TotalChunks int `json:"total_chunks"`

	// FileSize is the size of the uploaded file in bytes.
	FileSize int64 `json:"file_size"`

	// FileType is the lowercase file extension (".pdf", ".docx", ".txt").
	FileType string `json:"file_type"`

	// UploadTimestamp is when the file was ingested.
	UploadTimestamp time.Time `json:"upload_timestamp"`

	// VectorIDs are the vector store identifiers of the file's chunks.
	VectorIDs []string `json:"vector_ids"`

	// DocumentIDs are the content-hash IDs of the file's chunks, in order.
	DocumentIDs []string `json:"document_ids"`
}

// DocumentID derives the deterministic chunk identifier from content and
// filename: the filename stem joined with the first 8 hex characters of the
// content's MD5 digest.
func DocumentID(content, filename string) string {
	sum := md5.Sum([]byte(content)) //nolint:gosec // fingerprint only
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return stem + "_" + hex.EncodeToString(sum[:])[:8]
}

// DocumentStats is the aggregate view over all document records,
// recomputed on demand from the metadata store.
type DocumentStats struct {
	TotalDocuments int              `json:"total_documents"`
	TotalChunks    int              `json:"total_chunks"`
	Categories     map[string]int   `json:"categories"`
	FileTypes      map[string]int   `json:"file_types"`
	Documents      []DocumentRecord `json:"documents"`
}
