package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"docpanel-be/internal/docgen"
	"docpanel-be/internal/pkg/logger"
	"docpanel-be/internal/pkg/serverutils"
	internalWS "docpanel-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type knownSessions map[uuid.UUID]bool

func (k knownSessions) Get(id uuid.UUID) (*docgen.Orchestrator, bool) {
	return nil, k[id]
}

func TestServeWsGuards(t *testing.T) {
	open := uuid.New()
	h := NewReportHandler(knownSessions{open: true}, internalWS.NewHub(nil, logger.NewNopLogger()), logger.NewNopLogger())

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	h.RegisterRoutes(app.Group("/api"))

	cases := []struct {
		name   string
		path   string
		status int
	}{
		{"malformed id", "/api/ws/document-sessions/not-a-uuid", http.StatusBadRequest},
		{"unknown session", "/api/ws/document-sessions/" + uuid.NewString(), http.StatusNotFound},
		{"plain http on open session", "/api/ws/document-sessions/" + open.String(), http.StatusUpgradeRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tc.path, nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
