package nats

import (
	"testing"

	"docpanel-be/pkg/events"

	"github.com/stretchr/testify/assert"
)

func TestSubjectFallsUnderStream(t *testing.T) {
	assert.Equal(t, "documents.DOCUMENT_GENERATED", Subject(events.DocumentGenerated))
	assert.Equal(t, "documents.DOCUMENT_DELETED", Subject(events.DocumentDeleted))
}
