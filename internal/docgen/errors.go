package docgen

import (
	"errors"
	"fmt"
)

var (
	ErrGenerationInProgress = errors.New("a document generation is already in progress for this session")
	ErrSessionClosed        = errors.New("document session was closed before the request completed")
	ErrPreviewClosed        = errors.New("preview was closed before it was ready")
)

// Field names reported by validation, matching the JSON keys of the session API.
const (
	FieldDocumentType     = "document_type"
	FieldBody             = "body"
	FieldSubjectID        = "subject_id"
	FieldCollaboratorName = "collaborator_name"
	FieldTitle            = "title"
	FieldDocumentDate     = "document_date"
)

var fieldLabels = map[string]string{
	FieldDocumentType:     "Tipo de Documento",
	FieldBody:             "Corpo do Documento",
	FieldSubjectID:        "Aluno",
	FieldCollaboratorName: "Colaborador",
	FieldTitle:            "Título",
	FieldDocumentDate:     "Data do Documento",
}

// ValidationError names the first field that failed the mode rules.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	label, ok := fieldLabels[e.Field]
	if !ok {
		label = e.Field
	}
	return fmt.Sprintf("O campo %s é obrigatório.", label)
}

// FieldLockedError is returned when a patch touches a field that was fixed by
// the caller when the session was opened.
type FieldLockedError struct {
	Field string
}

func (e *FieldLockedError) Error() string {
	return fmt.Sprintf("field %s was set when the session was opened and cannot be changed", e.Field)
}

// UnsupportedModeError is raised when an operation is not available for a mode.
type UnsupportedModeError struct {
	Mode      Mode
	Operation string
}

func (e *UnsupportedModeError) Error() string {
	return fmt.Sprintf("%s is not supported for %s documents", e.Operation, e.Mode)
}

// RemoteCategory classifies a failed call to the document service.
type RemoteCategory string

const (
	RemoteServerRejected RemoteCategory = "server_rejected"
	RemoteUnreachable    RemoteCategory = "unreachable"
	RemoteClientFault    RemoteCategory = "client_fault"
)

// RemoteError wraps the cause of a failed remote call. Error returns the
// user-facing message; the cause stays reachable through Unwrap.
type RemoteError struct {
	Category   RemoteCategory
	StatusCode int
	Err        error
}

func (e *RemoteError) Error() string {
	switch e.Category {
	case RemoteServerRejected:
		return fmt.Sprintf("Erro do servidor: %d. Verifique o console do backend para mais detalhes.", e.StatusCode)
	case RemoteUnreachable:
		return "Não foi possível conectar ao servidor. Verifique sua conexão e o status do backend."
	default:
		msg := "erro desconhecido"
		if e.Err != nil {
			msg = e.Err.Error()
		}
		return fmt.Sprintf("Ocorreu um erro na aplicação: %s", msg)
	}
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// AsRemote normalizes any error from a client into a RemoteError. Errors that
// are not already categorized are treated as client-side faults.
func AsRemote(err error) *RemoteError {
	var re *RemoteError
	if errors.As(err, &re) {
		return re
	}
	return &RemoteError{Category: RemoteClientFault, Err: err}
}

// ErrSessionNotFound is returned by session registries for unknown or expired ids.
var ErrSessionNotFound = errors.New("document session not found")
