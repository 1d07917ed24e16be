package extractors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbus-labs/kbase-cli/internal/extractors/docx"
	"github.com/nimbus-labs/kbase-cli/internal/extractors/pdf"
	"github.com/nimbus-labs/kbase-cli/internal/extractors/plaintext"
)

func TestRegistry_ForFile(t *testing.T) {
	r := NewRegistry(plaintext.New(), docx.New(), pdf.New())

	tests := []struct {
		path      string
		supported bool
	}{
		{"/tmp/handbook.pdf", true},
		{"/tmp/handbook.PDF", true},
		{"/tmp/policy.docx", true},
		{"/tmp/notes.txt", true},
		{"/tmp/sheet.xlsx", false},
		{"/tmp/noextension", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			e, ok := r.ForFile(tt.path)
			assert.Equal(t, tt.supported, ok)
			if tt.supported {
				require.NotNil(t, e)
			}
		})
	}
}
