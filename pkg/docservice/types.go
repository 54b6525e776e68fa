package docservice

// Page mirrors the paged collection returned by the document service.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

type DocumentTypeRef struct {
	ID   int64  `json:"id"`
	Name string `json:"nome"`
}

type Subject struct {
	ID   int64  `json:"id"`
	Name string `json:"nome"`
}

// StudentRecord is a document stored against a student.
type StudentRecord struct {
	ID           int64            `json:"id"`
	Title        string           `json:"titulo"`
	DocumentType *DocumentTypeRef `json:"tipoDocumento,omitempty"`
	DocumentDate string           `json:"dataDocumento"`
	Content      string           `json:"documento,omitempty"`
	ContentType  string           `json:"tipoConteudo,omitempty"`
	Student      *Subject         `json:"aluno,omitempty"`
}
