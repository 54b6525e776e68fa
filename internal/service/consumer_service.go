package service

import (
	"context"
	"encoding/json"
	"time"

	"docpanel-be/internal/docgen"
	"docpanel-be/internal/dto"
	"docpanel-be/internal/entity"
	"docpanel-be/internal/pkg/logger"
	"docpanel-be/internal/repository/contract"
	"docpanel-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// EventPublisher is the outbound domain bus (NATS in production).
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// ReportDelivery pushes a serialized report to the live viewers of a session.
type ReportDelivery interface {
	SendToSession(sessionID uuid.UUID, payload []byte)
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	history   contract.GenerationLogRepository
	events    EventPublisher
	delivery  ReportDelivery
	logger    logger.ILogger
}

// NewConsumerService wires the report sinks. history, events and delivery are
// each optional.
func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	history contract.GenerationLogRepository,
	eventPublisher EventPublisher,
	delivery ReportDelivery,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		history:   history,
		events:    eventPublisher,
		delivery:  delivery,
		logger:    log,
	}
}

// Consume subscribes to the report topic and processes messages until ctx is
// done or the pub/sub is closed.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var report dto.SessionReportMessage
	if err := json.Unmarshal(msg.Payload, &report); err != nil {
		cs.logger.Error("CONSUMER", "Failed to unmarshal session report", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		// Malformed messages are dropped, retrying cannot fix them.
		msg.Ack()
		return
	}

	cs.logReport(report)

	if cs.delivery != nil {
		cs.delivery.SendToSession(report.SessionId, msg.Payload)
	}

	if cs.history != nil {
		if err := cs.history.Create(ctx, toGenerationLog(report)); err != nil {
			cs.logger.Error("CONSUMER", "Failed to persist generation log", map[string]interface{}{
				"session_id": report.SessionId.String(),
				"error":      err.Error(),
			})
		}
	}

	if evt, ok := reportEvent(report); ok && cs.events != nil {
		pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := cs.events.Publish(pubCtx, evt); err != nil {
			cs.logger.Warn("CONSUMER", "Failed to publish domain event", map[string]interface{}{
				"event": evt.EventType(),
				"error": err.Error(),
			})
		}
		cancel()
	}

	msg.Ack()
}

func (cs *consumerService) logReport(r dto.SessionReportMessage) {
	details := map[string]interface{}{
		"session_id": r.SessionId.String(),
		"mode":       r.Mode,
		"operation":  r.Operation,
		"kind":       r.Kind,
	}
	if r.Category != "" {
		details["category"] = r.Category
	}
	if r.Detail != "" {
		details["detail"] = r.Detail
	}
	if r.Kind == string(entity.GenerationOutcomeFailure) {
		cs.logger.Error("REPORT", r.Message, details)
		return
	}
	cs.logger.Info("REPORT", r.Message, details)
}

func toGenerationLog(r dto.SessionReportMessage) *entity.GenerationLog {
	log := &entity.GenerationLog{
		Id:        uuid.New(),
		SessionId: r.SessionId,
		Mode:      r.Mode,
		Operation: r.Operation,
		Outcome:   entity.GenerationOutcome(r.Kind),
		Category:  r.Category,
		Message:   r.Message,
		SubjectId: r.SubjectId,
		RecordId:  r.RecordId,
		Filename:  r.Filename,
		CreatedAt: r.At,
	}
	if r.Detail != "" {
		log.Details = map[string]interface{}{"detail": r.Detail}
	}
	return log
}

// reportEvent maps a report to its domain event. Local rejections have none.
func reportEvent(r dto.SessionReportMessage) (events.Event, bool) {
	var eventType string
	switch {
	case r.Kind == string(entity.GenerationOutcomeFailure):
		eventType = events.DocumentGenerationFailed
	case r.Kind == string(entity.GenerationOutcomeSuccess) && r.Operation == string(docgen.OpPreview):
		eventType = events.DocumentPreviewed
	case r.Kind == string(entity.GenerationOutcomeSuccess) && r.Operation == string(docgen.OpCommit):
		eventType = events.DocumentGenerated
	default:
		return nil, false
	}

	data := map[string]interface{}{
		"session_id": r.SessionId.String(),
		"mode":       r.Mode,
		"message":    r.Message,
	}
	if r.SubjectId != nil {
		data["subject_id"] = *r.SubjectId
	}
	if r.RecordId != nil {
		data["record_id"] = *r.RecordId
	}
	if r.Filename != "" {
		data["filename"] = r.Filename
	}
	if r.Category != "" {
		data["category"] = r.Category
	}
	return events.BaseEvent{Type: eventType, Data: data, OccurredAt: r.At}, true
}
