package service

import (
	"context"

	"docpanel-be/internal/dto"
	"docpanel-be/internal/entity"
	"docpanel-be/internal/pkg/logger"
	"docpanel-be/internal/pkg/serverutils"
	"docpanel-be/internal/repository/contract"
	"docpanel-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ILogService interface {
	ListGenerationLogs(ctx context.Context, q *dto.GenerationLogQuery) (*dto.PageResponse[dto.GenerationLogResponse], error)
	// GetGenerationLog returns nil when the entry does not exist or history is
	// disabled.
	GetGenerationLog(ctx context.Context, id uuid.UUID) (*dto.GenerationLogResponse, error)
	ListSystemLogs(ctx context.Context, q *dto.SystemLogQuery) (*dto.PageResponse[dto.SystemLogResponse], error)
}

type logService struct {
	history contract.GenerationLogRepository
	logger  logger.ILogger
}

// NewLogService serves generation history and the application log tail. A nil
// history repository yields empty pages.
func NewLogService(history contract.GenerationLogRepository, log logger.ILogger) ILogService {
	return &logService{history: history, logger: log}
}

func (s *logService) ListGenerationLogs(ctx context.Context, q *dto.GenerationLogQuery) (*dto.PageResponse[dto.GenerationLogResponse], error) {
	size := q.Size
	if size <= 0 {
		size = 20
	}
	if s.history == nil {
		return pageResponse([]dto.GenerationLogResponse{}, q.Page, size, 0, 0), nil
	}

	var filters []specification.Specification
	if q.SessionId != "" {
		id, err := uuid.Parse(q.SessionId)
		if err != nil {
			return nil, &serverutils.RequestValidationError{Fields: map[string]string{"session_id": "uuid"}}
		}
		filters = append(filters, specification.BySession{SessionID: id})
	}
	if q.Mode != "" {
		filters = append(filters, specification.ByMode{Mode: q.Mode})
	}
	if q.Outcome != "" {
		filters = append(filters, specification.ByOutcome{Outcome: q.Outcome})
	}
	if q.SubjectId > 0 {
		filters = append(filters, specification.BySubject{SubjectID: q.SubjectId})
	}

	total, err := s.history.Count(ctx, filters...)
	if err != nil {
		return nil, err
	}

	specs := append(filters,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: size, Offset: q.Page * size},
	)
	logs, err := s.history.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	items := make([]dto.GenerationLogResponse, 0, len(logs))
	for _, l := range logs {
		items = append(items, toGenerationLogResponse(l))
	}
	totalPages := int((total + int64(size) - 1) / int64(size))
	return pageResponse(items, q.Page, size, totalPages, total), nil
}

func (s *logService) GetGenerationLog(ctx context.Context, id uuid.UUID) (*dto.GenerationLogResponse, error) {
	if s.history == nil {
		return nil, nil
	}
	l, err := s.history.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, nil
	}
	res := toGenerationLogResponse(l)
	return &res, nil
}

func (s *logService) ListSystemLogs(ctx context.Context, q *dto.SystemLogQuery) (*dto.PageResponse[dto.SystemLogResponse], error) {
	size := q.Size
	if size <= 0 {
		size = 50
	}
	entries, err := s.logger.GetLogs(q.Level, size, q.Page*size)
	if err != nil {
		return nil, err
	}

	items := make([]dto.SystemLogResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.SystemLogResponse{
			Id:        e.Id,
			Level:     e.Level,
			Module:    e.Module,
			Message:   e.Message,
			Timestamp: e.Timestamp,
			Details:   e.Details,
		})
	}
	// The log tail is not counted, so totals are left at zero.
	return pageResponse(items, q.Page, size, 0, 0), nil
}

func toGenerationLogResponse(l *entity.GenerationLog) dto.GenerationLogResponse {
	return dto.GenerationLogResponse{
		Id:        l.Id,
		SessionId: l.SessionId,
		Mode:      l.Mode,
		Operation: l.Operation,
		Outcome:   string(l.Outcome),
		Category:  l.Category,
		Message:   l.Message,
		SubjectId: l.SubjectId,
		RecordId:  l.RecordId,
		Filename:  l.Filename,
		Details:   l.Details,
		CreatedAt: l.CreatedAt,
	}
}
