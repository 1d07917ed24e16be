package driven

import "context"

// Extractor pulls plain text out of an uploaded file. Each extractor
// handles one file extension (.pdf, .docx, .txt).
type Extractor interface {
	// Extensions returns the lowercase file extensions this extractor handles.
	Extensions() []string

	// Extract reads the file and returns its text as one or more logical
	// sections (e.g. PDF pages). Sections are chunked independently and
	// concatenate, in order, to the full document text.
	Extract(ctx context.Context, path string) ([]string, error)
}
