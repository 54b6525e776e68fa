package handler

import (
	"docpanel-be/internal/docgen"
	"docpanel-be/internal/pkg/logger"
	internalWS "docpanel-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// SessionFinder tells whether a session is currently open.
type SessionFinder interface {
	Get(id uuid.UUID) (*docgen.Orchestrator, bool)
}

// ReportHandler streams session reports over websocket.
type ReportHandler struct {
	sessions SessionFinder
	hub      *internalWS.Hub
	logger   logger.ILogger
}

func NewReportHandler(sessions SessionFinder, hub *internalWS.Hub, log logger.ILogger) *ReportHandler {
	return &ReportHandler{
		sessions: sessions,
		hub:      hub,
		logger:   log,
	}
}

func (h *ReportHandler) ServeWs(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}
	if _, ok := h.sessions.Get(sessionID); !ok {
		return docgen.ErrSessionNotFound
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("ReportHandler", "Starting report stream", map[string]interface{}{"session_id": sessionID})
		internalWS.ServeWs(h.hub, conn, sessionID)
		h.logger.Info("ReportHandler", "Report stream ended", map[string]interface{}{"session_id": sessionID})
	})(c)
}

func (h *ReportHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws/document-sessions/:id", h.ServeWs)
}
