package service

import (
	"context"
	"time"

	"docpanel-be/internal/docgen"
	"docpanel-be/internal/dto"
	"docpanel-be/internal/pkg/logger"
	"docpanel-be/internal/preview"
	"docpanel-be/pkg/docservice"
	"docpanel-be/pkg/events"
)

// DocumentArchive is the read/delete side of the document service.
type DocumentArchive interface {
	ListInstitutional(ctx context.Context, title string, page, size int) (*docservice.Page[docgen.Record], error)
	GetInstitutional(ctx context.Context, id int64) (*docgen.Record, error)
	DeleteInstitutional(ctx context.Context, id int64) error
	ListStudentDocuments(ctx context.Context, studentID int64, term string, page, size int) (*docservice.Page[docservice.StudentRecord], error)
	GetStudentDocument(ctx context.Context, id int64) (*docservice.StudentRecord, error)
	DeleteStudentDocument(ctx context.Context, id int64) error
}

type IDocumentArchiveService interface {
	ListInstitutional(ctx context.Context, q *dto.ArchiveListQuery) (*dto.PageResponse[dto.ArchivedDocumentResponse], error)
	GetInstitutional(ctx context.Context, id int64) (*dto.ArchivedDocumentDetailResponse, error)
	DeleteInstitutional(ctx context.Context, id int64) error
	ListStudentDocuments(ctx context.Context, studentID int64, q *dto.ArchiveListQuery) (*dto.PageResponse[dto.ArchivedDocumentResponse], error)
	GetStudentDocument(ctx context.Context, id int64) (*dto.ArchivedDocumentDetailResponse, error)
	DeleteStudentDocument(ctx context.Context, id int64) error
}

type documentArchiveService struct {
	archive         DocumentArchive
	events          EventPublisher
	logger          logger.ILogger
	defaultPageSize int
}

// NewDocumentArchiveService builds the archive service. eventPublisher may be
// nil.
func NewDocumentArchiveService(archive DocumentArchive, eventPublisher EventPublisher, log logger.ILogger, defaultPageSize int) IDocumentArchiveService {
	if defaultPageSize <= 0 {
		defaultPageSize = 10
	}
	return &documentArchiveService{
		archive:         archive,
		events:          eventPublisher,
		logger:          log,
		defaultPageSize: defaultPageSize,
	}
}

func (s *documentArchiveService) ListInstitutional(ctx context.Context, q *dto.ArchiveListQuery) (*dto.PageResponse[dto.ArchivedDocumentResponse], error) {
	page, size := s.paging(q)
	res, err := s.archive.ListInstitutional(ctx, q.Search, page, size)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ArchivedDocumentResponse, 0, len(res.Content))
	for _, r := range res.Content {
		items = append(items, institutionalSummary(r))
	}
	return pageResponse(items, res.Number, res.Size, res.TotalPages, res.TotalElements), nil
}

func (s *documentArchiveService) GetInstitutional(ctx context.Context, id int64) (*dto.ArchivedDocumentDetailResponse, error) {
	r, err := s.archive.GetInstitutional(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.ArchivedDocumentDetailResponse{
		ArchivedDocumentResponse: institutionalSummary(*r),
		ContentType:              r.ContentType,
		PreviewKind:              string(preview.Classify(r.ContentType, r.Content != "")),
		Content:                  r.Content,
	}, nil
}

func (s *documentArchiveService) DeleteInstitutional(ctx context.Context, id int64) error {
	if err := s.archive.DeleteInstitutional(ctx, id); err != nil {
		return err
	}
	s.deleted(ctx, "institution", id)
	return nil
}

func (s *documentArchiveService) ListStudentDocuments(ctx context.Context, studentID int64, q *dto.ArchiveListQuery) (*dto.PageResponse[dto.ArchivedDocumentResponse], error) {
	page, size := s.paging(q)
	res, err := s.archive.ListStudentDocuments(ctx, studentID, q.Search, page, size)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ArchivedDocumentResponse, 0, len(res.Content))
	for _, r := range res.Content {
		items = append(items, studentSummary(r))
	}
	return pageResponse(items, res.Number, res.Size, res.TotalPages, res.TotalElements), nil
}

func (s *documentArchiveService) GetStudentDocument(ctx context.Context, id int64) (*dto.ArchivedDocumentDetailResponse, error) {
	r, err := s.archive.GetStudentDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.ArchivedDocumentDetailResponse{
		ArchivedDocumentResponse: studentSummary(*r),
		ContentType:              r.ContentType,
		PreviewKind:              string(preview.Classify(r.ContentType, r.Content != "")),
		Content:                  r.Content,
	}, nil
}

func (s *documentArchiveService) DeleteStudentDocument(ctx context.Context, id int64) error {
	if err := s.archive.DeleteStudentDocument(ctx, id); err != nil {
		return err
	}
	s.deleted(ctx, "student", id)
	return nil
}

func (s *documentArchiveService) paging(q *dto.ArchiveListQuery) (int, int) {
	size := q.Size
	if size <= 0 {
		size = s.defaultPageSize
	}
	return q.Page, size
}

func (s *documentArchiveService) deleted(ctx context.Context, kind string, id int64) {
	s.logger.Info("ARCHIVE", "Document deleted", map[string]interface{}{
		"kind":        kind,
		"document_id": id,
	})
	if s.events == nil {
		return
	}
	evt := events.BaseEvent{
		Type: events.DocumentDeleted,
		Data: map[string]interface{}{
			"kind":        kind,
			"document_id": id,
		},
		OccurredAt: time.Now(),
	}
	if err := s.events.Publish(ctx, evt); err != nil {
		s.logger.Warn("ARCHIVE", "Failed to publish domain event", map[string]interface{}{
			"event": evt.Type,
			"error": err.Error(),
		})
	}
}

func institutionalSummary(r docgen.Record) dto.ArchivedDocumentResponse {
	return dto.ArchivedDocumentResponse{
		Id:           r.ID,
		Title:        r.Title,
		DocumentType: r.DocumentType,
		CreatedAt:    r.CreatedAt,
		UploadedAt:   r.UploadedAt,
	}
}

func studentSummary(r docservice.StudentRecord) dto.ArchivedDocumentResponse {
	res := dto.ArchivedDocumentResponse{
		Id:        r.ID,
		Title:     r.Title,
		CreatedAt: r.DocumentDate,
	}
	if r.DocumentType != nil {
		res.DocumentType = r.DocumentType.Name
	}
	if r.Student != nil {
		id := r.Student.ID
		res.SubjectId = &id
		res.SubjectName = r.Student.Name
	}
	return res
}

func pageResponse[T any](items []T, page, size, totalPages int, total int64) *dto.PageResponse[T] {
	return &dto.PageResponse[T]{
		Items:         items,
		Page:          page,
		Size:          size,
		TotalPages:    totalPages,
		TotalElements: total,
	}
}
