package dto

import (
	"time"

	"github.com/google/uuid"
)

// DocumentFields is the wire shape of the form. Every field is optional so the
// same type serves open (initial values) and patch requests.
type DocumentFields struct {
	Header           *string `json:"header,omitempty"`
	Body             *string `json:"body,omitempty"`
	Footer           *string `json:"footer,omitempty"`
	SubjectId        *int64  `json:"subject_id,omitempty" validate:"omitempty,gt=0"`
	SubjectName      *string `json:"subject_name,omitempty"`
	CollaboratorName *string `json:"collaborator_name,omitempty"`
	DocumentType     *string `json:"document_type,omitempty"`
	Title            *string `json:"title,omitempty"`
	// DocumentDate is YYYY-MM-DD; an empty string clears it.
	DocumentDate *string `json:"document_date,omitempty"`
}

type OpenSessionRequest struct {
	Mode    string          `json:"mode" validate:"required,oneof=student collaborator institution aluno colaborador instituicao"`
	Initial *DocumentFields `json:"initial"`
}

type PatchFieldsRequest struct {
	DocumentFields
	// Clear empties fields that have no blank value on the wire.
	Clear []string `json:"clear,omitempty" validate:"omitempty,dive,oneof=subject_id document_date"`
}

type SelectSubjectRequest struct {
	// A null id clears the selection.
	Id   *int64 `json:"id" validate:"omitempty,gt=0"`
	Name string `json:"name"`
}

type SessionCapabilities struct {
	Preview      bool   `json:"preview"`
	Commit       string `json:"commit"`
	CommitLabel  string `json:"commit_label"`
	HeaderFooter bool   `json:"header_footer"`
}

type SessionFormResponse struct {
	Header           string  `json:"header"`
	Body             string  `json:"body"`
	Footer           string  `json:"footer"`
	SubjectId        *int64  `json:"subject_id"`
	SubjectName      string  `json:"subject_name"`
	CollaboratorName string  `json:"collaborator_name"`
	DocumentType     string  `json:"document_type"`
	Title            string  `json:"title"`
	DocumentDate     *string `json:"document_date"`
}

type SessionResponse struct {
	Id           uuid.UUID           `json:"id"`
	Mode         string              `json:"mode"`
	State        string              `json:"state"`
	Generating   bool                `json:"generating"`
	Form         SessionFormResponse `json:"form"`
	PreviewUrl   string              `json:"preview_url,omitempty"`
	LockedFields []string            `json:"locked_fields"`
	Capabilities SessionCapabilities `json:"capabilities"`
}

type PreviewResponse struct {
	Handle      string `json:"handle"`
	Url         string `json:"url"`
	ContentType string `json:"content_type"`
	Pages       int    `json:"pages"`
}

type CommitRecordResponse struct {
	Id           int64  `json:"id"`
	Title        string `json:"title"`
	DocumentType string `json:"document_type"`
	CreatedAt    string `json:"created_at"`
}

// SessionReportMessage is the bus and websocket representation of a session
// report.
type SessionReportMessage struct {
	SessionId uuid.UUID `json:"session_id"`
	Mode      string    `json:"mode"`
	Operation string    `json:"operation"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	SubjectId *int64    `json:"subject_id,omitempty"`
	RecordId  *int64    `json:"record_id,omitempty"`
	Filename  string    `json:"filename,omitempty"`
	Category  string    `json:"category,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	At        time.Time `json:"at"`
}
