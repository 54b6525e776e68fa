package docgen

import (
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
)

const fallbackSubjectLabel = "aluno"

// DownloadFilename builds the name of a downloaded student document from the
// subject display name and the generation date.
func DownloadFilename(subjectName string, at time.Time) string {
	name := strings.ReplaceAll(slug.Make(subjectName), "-", "_")
	if name == "" {
		name = fallbackSubjectLabel
	}
	return fmt.Sprintf("documento_%s_%s.pdf", name, at.UTC().Format(DateLayout))
}
