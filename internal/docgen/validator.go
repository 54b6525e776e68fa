package docgen

import "strings"

// Validate checks form against the rules of mode. The shared rules run first,
// in a fixed order, and the first violation is returned.
func Validate(mode Mode, form Form) error {
	if form.DocumentType == "" {
		return &ValidationError{Field: FieldDocumentType}
	}
	if isBlank(form.Body) {
		return &ValidationError{Field: FieldBody}
	}

	switch mode {
	case ModeStudent:
		if form.SubjectID == nil {
			return &ValidationError{Field: FieldSubjectID}
		}
	case ModeCollaborator:
		if isBlank(form.CollaboratorName) {
			return &ValidationError{Field: FieldCollaboratorName}
		}
	case ModeInstitution:
		if isBlank(form.Title) {
			return &ValidationError{Field: FieldTitle}
		}
		if form.DocumentDate == nil {
			return &ValidationError{Field: FieldDocumentDate}
		}
	}
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
