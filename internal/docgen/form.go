package docgen

import "time"

// DateLayout is the wire format of DocumentDate.
const DateLayout = "2006-01-02"

// Form is the mutable draft shared by every mode. Fields that do not belong to
// the active mode are kept so callers can pre-seed partial state.
type Form struct {
	Header string
	Body   string
	Footer string

	SubjectID *int64
	// SubjectName is a display copy of the selected student. It only feeds the
	// download filename and is never sent to the document service.
	SubjectName string

	CollaboratorName string
	DocumentType     string

	Title        string
	DocumentDate *time.Time
}

// FormPatch carries optional field writes. A nil pointer leaves the field
// untouched; the Clear flags empty the fields that have no blank value.
type FormPatch struct {
	Header           *string
	Body             *string
	Footer           *string
	SubjectID        *int64
	SubjectName      *string
	CollaboratorName *string
	DocumentType     *string
	Title            *string
	DocumentDate     *time.Time

	ClearSubject      bool
	ClearDocumentDate bool
}

// NewForm merges patch over an all-empty default.
func NewForm(patch FormPatch) Form {
	var f Form
	f.Apply(patch)
	return f
}

// Apply writes every present field of patch independently.
func (f *Form) Apply(patch FormPatch) {
	if patch.Header != nil {
		f.Header = *patch.Header
	}
	if patch.Body != nil {
		f.Body = *patch.Body
	}
	if patch.Footer != nil {
		f.Footer = *patch.Footer
	}
	if patch.ClearSubject {
		f.SelectSubject(nil, "")
	}
	if patch.SubjectID != nil {
		id := *patch.SubjectID
		f.SubjectID = &id
	}
	if patch.SubjectName != nil {
		f.SubjectName = *patch.SubjectName
	}
	if patch.CollaboratorName != nil {
		f.CollaboratorName = *patch.CollaboratorName
	}
	if patch.DocumentType != nil {
		f.DocumentType = *patch.DocumentType
	}
	if patch.Title != nil {
		f.Title = *patch.Title
	}
	if patch.ClearDocumentDate {
		f.DocumentDate = nil
	}
	if patch.DocumentDate != nil {
		d := *patch.DocumentDate
		f.DocumentDate = &d
	}
}

// SelectSubject stores the student id together with its display name. A nil
// id clears both.
func (f *Form) SelectSubject(id *int64, name string) {
	if id == nil {
		f.SubjectID = nil
		f.SubjectName = ""
		return
	}
	v := *id
	f.SubjectID = &v
	f.SubjectName = name
}

// Clone returns a copy that shares no pointers with f.
func (f Form) Clone() Form {
	c := f
	if f.SubjectID != nil {
		id := *f.SubjectID
		c.SubjectID = &id
	}
	if f.DocumentDate != nil {
		d := *f.DocumentDate
		c.DocumentDate = &d
	}
	return c
}
