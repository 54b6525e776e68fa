package preview

import "strings"

// Kind tells a viewer how an archived document can be displayed.
type Kind string

const (
	KindImage       Kind = "image"
	KindPDF         Kind = "pdf"
	KindUnsupported Kind = "unsupported"
	KindEmpty       Kind = "empty"
)

// Classify derives the kind from the declared content type alone.
func Classify(contentType string, hasContent bool) Kind {
	switch {
	case !hasContent:
		return KindEmpty
	case strings.HasPrefix(contentType, "image/"):
		return KindImage
	case contentType == "application/pdf":
		return KindPDF
	default:
		return KindUnsupported
	}
}
