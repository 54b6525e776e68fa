package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type GenerationLog struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId uuid.UUID      `gorm:"type:uuid;not null;index"`
	Mode      string         `gorm:"type:varchar(20);not null;index"`
	Operation string         `gorm:"type:varchar(20);not null"`
	Outcome   string         `gorm:"type:varchar(20);not null;index"`
	Category  *string        `gorm:"type:varchar(30)"`
	Message   string         `gorm:"type:text;not null"`
	SubjectId *int64         `gorm:"index"`
	RecordId  *int64
	Filename  *string        `gorm:"type:varchar(255)"`
	Details   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index"`
}

func (GenerationLog) TableName() string {
	return "generation_logs"
}
