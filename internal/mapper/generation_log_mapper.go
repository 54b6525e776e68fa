package mapper

import (
	"encoding/json"

	"docpanel-be/internal/entity"
	"docpanel-be/internal/model"

	"gorm.io/datatypes"
)

type GenerationLogMapper struct{}

func NewGenerationLogMapper() *GenerationLogMapper {
	return &GenerationLogMapper{}
}

func (m *GenerationLogMapper) ToEntity(l *model.GenerationLog) *entity.GenerationLog {
	if l == nil {
		return nil
	}

	var details map[string]interface{}
	if len(l.Details) > 0 {
		// Corrupt JSON leaves details empty rather than failing the listing.
		_ = json.Unmarshal(l.Details, &details)
	}

	return &entity.GenerationLog{
		Id:        l.Id,
		SessionId: l.SessionId,
		Mode:      l.Mode,
		Operation: l.Operation,
		Outcome:   entity.GenerationOutcome(l.Outcome),
		Category:  derefString(l.Category),
		Message:   l.Message,
		SubjectId: l.SubjectId,
		RecordId:  l.RecordId,
		Filename:  derefString(l.Filename),
		Details:   details,
		CreatedAt: l.CreatedAt,
	}
}

func (m *GenerationLogMapper) ToModel(l *entity.GenerationLog) *model.GenerationLog {
	if l == nil {
		return nil
	}

	var details datatypes.JSON
	if len(l.Details) > 0 {
		if raw, err := json.Marshal(l.Details); err == nil {
			details = datatypes.JSON(raw)
		}
	}

	return &model.GenerationLog{
		Id:        l.Id,
		SessionId: l.SessionId,
		Mode:      l.Mode,
		Operation: l.Operation,
		Outcome:   string(l.Outcome),
		Category:  optionalString(l.Category),
		Message:   l.Message,
		SubjectId: l.SubjectId,
		RecordId:  l.RecordId,
		Filename:  optionalString(l.Filename),
		Details:   details,
		CreatedAt: l.CreatedAt,
	}
}

func (m *GenerationLogMapper) ToEntities(logs []*model.GenerationLog) []*entity.GenerationLog {
	entities := make([]*entity.GenerationLog, len(logs))
	for i, l := range logs {
		entities[i] = m.ToEntity(l)
	}
	return entities
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
