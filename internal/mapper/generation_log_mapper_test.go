package mapper

import (
	"testing"
	"time"

	"docpanel-be/internal/entity"
	"docpanel-be/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestGenerationLogOptionalColumns(t *testing.T) {
	m := NewGenerationLogMapper()

	out := m.ToModel(&entity.GenerationLog{
		Id:        uuid.New(),
		SessionId: uuid.New(),
		Mode:      "student",
		Operation: "preview",
		Outcome:   entity.GenerationOutcomeRejected,
		Message:   "O campo Corpo do Documento é obrigatório.",
		CreatedAt: time.Now(),
	})
	assert.Nil(t, out.Category)
	assert.Nil(t, out.Filename)
	assert.Empty(t, out.Details)

	back := m.ToEntity(out)
	assert.Equal(t, "", back.Category)
	assert.Equal(t, entity.GenerationOutcomeRejected, back.Outcome)
	assert.Nil(t, back.Details)
}

func TestGenerationLogDetailsJSON(t *testing.T) {
	m := NewGenerationLogMapper()

	out := m.ToModel(&entity.GenerationLog{
		Outcome:  entity.GenerationOutcomeFailure,
		Category: "unreachable",
		Details:  map[string]interface{}{"detail": "dial tcp: refused"},
	})
	require.NotNil(t, out.Category)
	assert.Equal(t, "unreachable", *out.Category)
	assert.JSONEq(t, `{"detail":"dial tcp: refused"}`, string(out.Details))

	corrupt := m.ToEntity(&model.GenerationLog{Outcome: "failure", Details: datatypes.JSON(`{not json`)})
	assert.Nil(t, corrupt.Details)
}

func TestGenerationLogNil(t *testing.T) {
	m := NewGenerationLogMapper()
	assert.Nil(t, m.ToEntity(nil))
	assert.Nil(t, m.ToModel(nil))
	assert.Empty(t, m.ToEntities(nil))
}
