// Package extractors provides format-specific text extraction for the
// ingestion pipeline: plain text, DOCX, and PDF. Each subpackage
// implements the driven.Extractor port; a registry selects by file
// extension. Extraction failure for one file is isolated to that file's
// result and never aborts a batch.
package extractors

import (
	"path/filepath"
	"strings"

	"github.com/nimbus-labs/kbase-cli/internal/core/ports/driven"
)

// Registry maps lowercase file extensions to extractors.
type Registry struct {
	byExt map[string]driven.Extractor
}

// NewRegistry creates a registry over the given extractors.
func NewRegistry(extractors ...driven.Extractor) *Registry {
	r := &Registry{byExt: make(map[string]driven.Extractor)}
	for _, e := range extractors {
		for _, ext := range e.Extensions() {
			r.byExt[ext] = e
		}
	}
	return r
}

// ForFile returns the extractor for a file path's extension, or false
// when the extension is unsupported.
func (r *Registry) ForFile(path string) (driven.Extractor, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	e, ok := r.byExt[ext]
	return e, ok
}
