package preview

import (
	"bytes"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

const pdfContentType = "application/pdf"

func init() {
	// pdfcpu would otherwise create a config directory under the user's home.
	api.DisableConfigDir()
}

// Info is what could be learned about an artifact without rendering it.
type Info struct {
	ContentType string
	IsPDF       bool
	Pages       int
}

// Inspect sniffs content. declared is the content type announced by the
// document service and is kept when sniffing is inconclusive.
func Inspect(content []byte, declared string) Info {
	detected := mimetype.Detect(content)
	info := Info{ContentType: declared}
	if detected.Is(pdfContentType) {
		info.ContentType = pdfContentType
		info.IsPDF = true
		info.Pages = pageCount(content)
	} else if info.ContentType == "" {
		info.ContentType = detected.String()
	}
	return info
}

// pageCount returns 0 when the document cannot be parsed.
func pageCount(content []byte) (pages int) {
	// pdfcpu may panic on truncated cross-reference tables.
	defer func() {
		if recover() != nil {
			pages = 0
		}
	}()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(content), model.NewDefaultConfiguration())
	if err != nil {
		return 0
	}
	return ctx.PageCount
}
