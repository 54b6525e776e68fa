package dto

import (
	"time"

	"github.com/google/uuid"
)

type GenerationLogQuery struct {
	SessionId string `query:"session_id" validate:"omitempty,uuid"`
	Mode      string `query:"mode" validate:"omitempty,oneof=student collaborator institution"`
	Outcome   string `query:"outcome" validate:"omitempty,oneof=success rejected failure"`
	SubjectId int64  `query:"subject_id" validate:"gte=0"`
	Page      int    `query:"page" validate:"gte=0"`
	Size      int    `query:"size" validate:"gte=0,lte=100"`
}

type GenerationLogResponse struct {
	Id        uuid.UUID              `json:"id"`
	SessionId uuid.UUID              `json:"session_id"`
	Mode      string                 `json:"mode"`
	Operation string                 `json:"operation"`
	Outcome   string                 `json:"outcome"`
	Category  string                 `json:"category,omitempty"`
	Message   string                 `json:"message"`
	SubjectId *int64                 `json:"subject_id,omitempty"`
	RecordId  *int64                 `json:"record_id,omitempty"`
	Filename  string                 `json:"filename,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type SystemLogQuery struct {
	Level string `query:"level" validate:"omitempty,oneof=DEBUG INFO WARN ERROR"`
	Page  int    `query:"page" validate:"gte=0"`
	Size  int    `query:"size" validate:"gte=0,lte=200"`
}

// Log ids are MD5 hashes of the raw line, not UUIDs.
type SystemLogResponse struct {
	Id        string                 `json:"id"`
	Level     string                 `json:"level"`
	Module    string                 `json:"module"`
	Message   string                 `json:"message"`
	Timestamp string                 `json:"timestamp"`
	Details   map[string]interface{} `json:"details,omitempty"`
}
