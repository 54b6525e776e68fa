package dto

type PageResponse[T any] struct {
	Items         []T   `json:"items"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalPages    int   `json:"total_pages"`
	TotalElements int64 `json:"total_elements"`
}

type ArchiveListQuery struct {
	Search string `query:"search"`
	Page   int    `query:"page" validate:"gte=0"`
	Size   int    `query:"size" validate:"gte=0,lte=100"`
}

type ArchivedDocumentResponse struct {
	Id           int64  `json:"id"`
	Title        string `json:"title"`
	DocumentType string `json:"document_type"`
	CreatedAt    string `json:"created_at,omitempty"`
	UploadedAt   string `json:"uploaded_at,omitempty"`
	SubjectId    *int64 `json:"subject_id,omitempty"`
	SubjectName  string `json:"subject_name,omitempty"`
}

type ArchivedDocumentDetailResponse struct {
	ArchivedDocumentResponse
	ContentType string `json:"content_type,omitempty"`
	PreviewKind string `json:"preview_kind"`
	// Content stays base64 as received from the document service.
	Content string `json:"content,omitempty"`
}
