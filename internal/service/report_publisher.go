package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"docpanel-be/internal/docgen"
	"docpanel-be/internal/dto"
	"docpanel-be/internal/pkg/logger"
)

// ReportPublisher puts every session report on the in-process bus. It is the
// docgen.Reporter of sessions opened by the service.
type ReportPublisher struct {
	publisher IPublisherService
	logger    logger.ILogger
}

func NewReportPublisher(publisher IPublisherService, log logger.ILogger) *ReportPublisher {
	return &ReportPublisher{publisher: publisher, logger: log}
}

func (p *ReportPublisher) Report(r docgen.Report) {
	payload, err := json.Marshal(ToReportMessage(r))
	if err != nil {
		p.logger.Error("REPORT", "Failed to marshal session report", map[string]interface{}{
			"session_id": r.SessionID.String(),
			"error":      err.Error(),
		})
		return
	}
	if err := p.publisher.Publish(context.Background(), payload); err != nil {
		p.logger.Error("REPORT", "Failed to publish session report", map[string]interface{}{
			"session_id": r.SessionID.String(),
			"error":      err.Error(),
		})
	}
}

func ToReportMessage(r docgen.Report) dto.SessionReportMessage {
	msg := dto.SessionReportMessage{
		SessionId: r.SessionID,
		Mode:      r.Mode.String(),
		Operation: string(r.Operation),
		Kind:      string(r.Kind),
		Message:   r.Message,
		SubjectId: r.SubjectID,
		RecordId:  r.RecordID,
		Filename:  r.Filename,
		Category:  string(r.Category),
		At:        r.At,
	}
	if detail := reportDetail(r.Err); detail != r.Message {
		msg.Detail = detail
	}
	return msg
}

// reportDetail is the diagnostic cause of a report error. For remote failures
// it is the wrapped cause, since Error only returns the user-facing text.
func reportDetail(err error) string {
	if err == nil {
		return ""
	}
	var remote *docgen.RemoteError
	if !errors.As(err, &remote) {
		return err.Error()
	}
	switch {
	case remote.Err != nil:
		return remote.Err.Error()
	case remote.StatusCode != 0:
		return fmt.Sprintf("document service responded with status %d", remote.StatusCode)
	default:
		return ""
	}
}
