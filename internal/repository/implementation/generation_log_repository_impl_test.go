package implementation

import (
	"context"
	"os"
	"testing"
	"time"

	"docpanel-be/internal/entity"
	"docpanel-be/internal/model"
	"docpanel-be/internal/repository/specification"
	"docpanel-be/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real Postgres when DB_CONNECTION_STRING is set.
func TestGenerationLogRepositoryIntegration(t *testing.T) {
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.GenerationLog{}))

	repo := NewGenerationLogRepository(db)
	ctx := context.Background()
	session := uuid.New()
	subject := int64(42)
	t.Cleanup(func() {
		db.Where("session_id = ?", session).Delete(&model.GenerationLog{})
	})

	for i, outcome := range []entity.GenerationOutcome{
		entity.GenerationOutcomeRejected,
		entity.GenerationOutcomeFailure,
		entity.GenerationOutcomeSuccess,
	} {
		log := &entity.GenerationLog{
			Id:        uuid.New(),
			SessionId: session,
			Mode:      "student",
			Operation: "commit",
			Outcome:   outcome,
			Message:   string(outcome),
			SubjectId: &subject,
			CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
		}
		if outcome == entity.GenerationOutcomeFailure {
			log.Category = "unreachable"
			log.Details = map[string]interface{}{"detail": "dial tcp: refused"}
		}
		require.NoError(t, repo.Create(ctx, log))
	}

	count, err := repo.Count(ctx, specification.BySession{SessionID: session})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	failures, err := repo.FindAll(ctx,
		specification.BySession{SessionID: session},
		specification.ByOutcome{Outcome: string(entity.GenerationOutcomeFailure)},
	)
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, "unreachable", failures[0].Category)
	assert.Equal(t, "dial tcp: refused", failures[0].Details["detail"])

	latest, err := repo.FindAll(ctx,
		specification.BySession{SessionID: session},
		specification.BySubject{SubjectID: subject},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: 1},
	)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, entity.GenerationOutcomeSuccess, latest[0].Outcome)

	one, err := repo.FindOne(ctx, specification.ByID{ID: latest[0].Id})
	require.NoError(t, err)
	require.NotNil(t, one)
	assert.Equal(t, session, one.SessionId)

	missing, err := repo.FindOne(ctx, specification.ByID{ID: uuid.New()})
	require.NoError(t, err)
	assert.Nil(t, missing)
}
