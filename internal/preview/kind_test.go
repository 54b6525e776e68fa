package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		hasContent  bool
		want        Kind
	}{
		{"png", "image/png", true, KindImage},
		{"jpeg", "image/jpeg", true, KindImage},
		{"pdf", "application/pdf", true, KindPDF},
		{"pdf with params", "application/pdf; charset=binary", true, KindUnsupported},
		{"docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", true, KindUnsupported},
		{"blank type", "", true, KindUnsupported},
		{"no content", "application/pdf", false, KindEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.contentType, tt.hasContent))
		})
	}
}
