package entity

import (
	"time"

	"github.com/google/uuid"
)

type GenerationOutcome string

const (
	GenerationOutcomeSuccess  GenerationOutcome = "success"
	GenerationOutcomeRejected GenerationOutcome = "rejected"
	GenerationOutcomeFailure  GenerationOutcome = "failure"
)

// GenerationLog is one reported outcome of a preview or commit attempt.
type GenerationLog struct {
	Id        uuid.UUID
	SessionId uuid.UUID
	Mode      string
	Operation string
	Outcome   GenerationOutcome
	Category  string
	Message   string
	SubjectId *int64
	RecordId  *int64
	Filename  string
	Details   map[string]interface{}
	CreatedAt time.Time
}
