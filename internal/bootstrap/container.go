package bootstrap

import (
	"context"
	"log"

	"docpanel-be/internal/config"
	"docpanel-be/internal/controller"
	"docpanel-be/internal/docgen"
	"docpanel-be/internal/handler"
	"docpanel-be/internal/pkg/logger"
	"docpanel-be/internal/preview"
	"docpanel-be/internal/repository/contract"
	"docpanel-be/internal/repository/implementation"
	"docpanel-be/internal/repository/memory"
	"docpanel-be/internal/service"
	"docpanel-be/internal/websocket"
	"docpanel-be/pkg/docservice"
	pktNats "docpanel-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	DocumentSessionController controller.IDocumentSessionController
	DocumentArchiveController controller.IDocumentArchiveController
	LogController             controller.ILogController

	// Background Services (run by main.go)
	ConsumerService service.IConsumerService
	WebSocketHub    *websocket.Hub

	ReportHandler *handler.ReportHandler

	Sessions *memory.SessionRepository
	Previews *preview.Store
	Logger   logger.ILogger

	pubSub  *gochannel.GoChannel
	natsPub *pktNats.Publisher
	rdb     *redis.Client
}

// NewContainer wires the application. db may be nil, which disables generation
// history. NATS and Redis are optional and skipped when their URL is empty or
// unreachable.
func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	reportLogger := logger.NewIsolatedLogger(cfg.App.WsLogFilePath)

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewStdLogger(false, false),
	)

	// 3. Infrastructure
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		p, err := pktNats.NewPublisher(ctx, cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			natsPub = p
		}
	}

	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb = redis.NewClient(opt)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
			rdb.Close()
			rdb = nil
		}
	}

	var history contract.GenerationLogRepository
	if db != nil {
		history = implementation.NewGenerationLogRepository(db)
	}

	// 4. Domain
	docClient := docservice.NewClient(cfg.DocService.BaseURL, cfg.DocService.Timeout)
	previews := preview.NewStore()
	sessions := memory.NewSessionRepository(cfg.Session.TTL, cfg.Session.CleanupInterval)
	wsHub := websocket.NewHub(rdb, reportLogger)

	publisherService := service.NewPublisherService(cfg.App.ReportTopic, pubSub)
	reporter := service.NewReportPublisher(publisherService, sysLogger)

	// A nil *Publisher must not reach the interface, or the nil check in the
	// services would pass.
	var eventPublisher service.EventPublisher
	if natsPub != nil {
		eventPublisher = natsPub
	}

	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.ReportTopic,
		history,
		eventPublisher,
		wsHub,
		reportLogger,
	)

	sessionService := service.NewDocumentSessionService(service.DocumentSessionServiceDeps{
		Sessions: sessions,
		Previews: previews,
		Client:   docClient,
		Subjects: docClient,
		Reporter: docgen.Reporter(reporter),
		Logger:   sysLogger,
		BaseURL:  cfg.App.BaseURL,
	})
	archiveService := service.NewDocumentArchiveService(docClient, eventPublisher, sysLogger, cfg.DocService.PageSize)
	logService := service.NewLogService(history, sysLogger)

	return &Container{
		DocumentSessionController: controller.NewDocumentSessionController(sessionService),
		DocumentArchiveController: controller.NewDocumentArchiveController(archiveService),
		LogController:             controller.NewLogController(logService),

		ConsumerService: consumerService,
		WebSocketHub:    wsHub,
		ReportHandler:   handler.NewReportHandler(sessions, wsHub, reportLogger),

		Sessions: sessions,
		Previews: previews,
		Logger:   sysLogger,

		pubSub:  pubSub,
		natsPub: natsPub,
		rdb:     rdb,
	}
}

// Close tears down every open session and releases what is left in the
// preview store, then closes the buses.
func (c *Container) Close() {
	closed := c.Sessions.CloseAll()
	released := c.Previews.ReleaseAll()
	c.Logger.Info("BOOTSTRAP", "Shutdown cleanup", map[string]interface{}{
		"sessions_closed":   closed,
		"previews_released": released,
	})

	if err := c.pubSub.Close(); err != nil {
		c.Logger.Warn("BOOTSTRAP", "Failed to close pub/sub", map[string]interface{}{"error": err.Error()})
	}
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	if c.rdb != nil {
		c.rdb.Close()
	}
	c.Logger.Sync()
}
