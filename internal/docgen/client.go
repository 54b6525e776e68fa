package docgen

import "context"

// StudentDocumentRequest is the body of the student preview and generate calls.
type StudentDocumentRequest struct {
	Body         string `json:"texto"`
	SubjectID    int64  `json:"alunoId"`
	DocumentType string `json:"tipoDocumento"`
	Header       string `json:"textoCabecalho"`
	Footer       string `json:"textoRodape"`
}

// InstitutionDocumentRequest is the body of the institution preview and
// generate-and-persist calls.
type InstitutionDocumentRequest struct {
	Title        string `json:"titulo"`
	Body         string `json:"texto"`
	DocumentDate string `json:"dataDocumento"`
	DocumentType string `json:"tipoDocumento"`
}

// Artifact is a generated binary document.
type Artifact struct {
	Content     []byte
	ContentType string
}

// Record describes an institutional document persisted by the document service.
type Record struct {
	ID           int64  `json:"id"`
	Title        string `json:"titulo"`
	DocumentType string `json:"tipoDocumento"`
	CreatedAt    string `json:"dataCriacao"`
	Content      string `json:"doc,omitempty"`
	ContentType  string `json:"tipoConteudo,omitempty"`
	UploadedAt   string `json:"dataUpload,omitempty"`
}

// Client is the remote document service as seen by the orchestrator.
// Implementations return *RemoteError for categorized failures.
type Client interface {
	PreviewStudent(ctx context.Context, req StudentDocumentRequest) (*Artifact, error)
	PreviewInstitution(ctx context.Context, req InstitutionDocumentRequest) (*Artifact, error)
	GenerateStudent(ctx context.Context, req StudentDocumentRequest) (*Artifact, error)
	GenerateAndPersistInstitution(ctx context.Context, req InstitutionDocumentRequest) (*Record, error)
}

// Saver performs the save-as-file action of a student commit.
type Saver interface {
	SaveAs(ctx context.Context, filename string, content []byte) error
}

// SaverFunc adapts a function to Saver.
type SaverFunc func(ctx context.Context, filename string, content []byte) error

func (f SaverFunc) SaveAs(ctx context.Context, filename string, content []byte) error {
	return f(ctx, filename, content)
}
