package events

import "time"

// Event is anything published on the domain bus.
type Event interface {
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

const (
	DocumentPreviewed        = "DOCUMENT_PREVIEWED"
	DocumentGenerated        = "DOCUMENT_GENERATED"
	DocumentGenerationFailed = "DOCUMENT_GENERATION_FAILED"
	DocumentDeleted          = "DOCUMENT_DELETED"
)

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
