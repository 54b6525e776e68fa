package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"docpanel-be/internal/docgen"
	"docpanel-be/internal/dto"
	"docpanel-be/internal/entity"
	"docpanel-be/internal/pkg/logger"
	"docpanel-be/internal/repository/specification"
	"docpanel-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryHistory struct {
	mu   sync.Mutex
	logs []*entity.GenerationLog
}

func (h *memoryHistory) Create(_ context.Context, l *entity.GenerationLog) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.logs = append(h.logs, l)
	return nil
}

func (h *memoryHistory) FindOne(_ context.Context, specs ...specification.Specification) (*entity.GenerationLog, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, spec := range specs {
		byID, ok := spec.(specification.ByID)
		if !ok {
			continue
		}
		for _, l := range h.logs {
			if l.Id == byID.ID {
				return l, nil
			}
		}
		return nil, nil
	}
	if len(h.logs) == 0 {
		return nil, nil
	}
	return h.logs[0], nil
}

func (h *memoryHistory) FindAll(context.Context, ...specification.Specification) ([]*entity.GenerationLog, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*entity.GenerationLog(nil), h.logs...), nil
}

func (h *memoryHistory) Count(context.Context, ...specification.Specification) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return int64(len(h.logs)), nil
}

func (h *memoryHistory) All() []*entity.GenerationLog {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*entity.GenerationLog(nil), h.logs...)
}

type memoryEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (e *memoryEvents) Publish(_ context.Context, evt events.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, evt)
	return nil
}

func (e *memoryEvents) Types() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	types := make([]string, 0, len(e.events))
	for _, evt := range e.events {
		types = append(types, evt.EventType())
	}
	return types
}

type memoryDelivery struct {
	mu       sync.Mutex
	payloads map[uuid.UUID][][]byte
}

func (d *memoryDelivery) SendToSession(id uuid.UUID, payload []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.payloads == nil {
		d.payloads = make(map[uuid.UUID][][]byte)
	}
	d.payloads[id] = append(d.payloads[id], payload)
}

func (d *memoryDelivery) Count(id uuid.UUID) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.payloads[id])
}

func TestReportsFlowToEverySink(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 16}, watermill.NopLogger{})
	defer pubSub.Close()

	history := &memoryHistory{}
	evts := &memoryEvents{}
	delivery := &memoryDelivery{}
	nop := logger.NewNopLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := NewConsumerService(pubSub, "reports", history, evts, delivery, nop)
	require.NoError(t, consumer.Consume(ctx))

	reporter := NewReportPublisher(NewPublisherService("reports", pubSub), nop)
	session := uuid.New()
	subject := int64(42)
	at := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)

	reporter.Report(docgen.Report{SessionID: session, Mode: docgen.ModeStudent, Operation: docgen.OpPreview, Kind: docgen.ReportSuccess, Message: "ok", SubjectID: &subject, At: at})
	reporter.Report(docgen.Report{SessionID: session, Mode: docgen.ModeStudent, Operation: docgen.OpCommit, Kind: docgen.ReportRejected, Message: "O campo Corpo do Documento é obrigatório.", At: at})
	reporter.Report(docgen.Report{
		SessionID: session, Mode: docgen.ModeStudent, Operation: docgen.OpCommit, Kind: docgen.ReportFailure,
		Message: "unreachable", Category: docgen.RemoteUnreachable, Err: errors.New("dial tcp: refused"), At: at,
	})
	reporter.Report(docgen.Report{SessionID: session, Mode: docgen.ModeStudent, Operation: docgen.OpCommit, Kind: docgen.ReportSuccess, Message: "done", Filename: "documento_x.pdf", At: at})

	require.Eventually(t, func() bool { return len(history.All()) == 4 }, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, 4, delivery.Count(session))
	assert.ElementsMatch(t, []string{
		events.DocumentPreviewed,
		events.DocumentGenerationFailed,
		events.DocumentGenerated,
	}, evts.Types())

	var failure *entity.GenerationLog
	for _, l := range history.All() {
		if l.Outcome == entity.GenerationOutcomeFailure {
			failure = l
		}
	}
	require.NotNil(t, failure)
	assert.Equal(t, "unreachable", failure.Category)
	assert.Equal(t, "dial tcp: refused", failure.Details["detail"])
	assert.True(t, at.Equal(failure.CreatedAt))
}

func TestReportMessageShape(t *testing.T) {
	id := uuid.New()
	record := int64(5)
	msg := ToReportMessage(docgen.Report{
		SessionID: id,
		Mode:      docgen.ModeInstitution,
		Operation: docgen.OpCommit,
		Kind:      docgen.ReportSuccess,
		Message:   "Documento institucional gerado e salvo com sucesso!",
		RecordID:  &record,
	})

	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, id.String(), decoded["session_id"])
	assert.Equal(t, "institution", decoded["mode"])
	assert.Equal(t, "commit", decoded["operation"])
	assert.Equal(t, float64(5), decoded["record_id"])
	assert.NotContains(t, decoded, "subject_id")
	assert.NotContains(t, decoded, "detail")
}

func TestReportDetailCarriesRemoteCause(t *testing.T) {
	unreachable := &docgen.RemoteError{Category: docgen.RemoteUnreachable, Err: errors.New("dial tcp 10.0.0.5:8080: connect: connection refused")}
	msg := ToReportMessage(docgen.Report{
		Kind:     docgen.ReportFailure,
		Message:  unreachable.Error(),
		Category: unreachable.Category,
		Err:      unreachable,
	})
	assert.Equal(t, "dial tcp 10.0.0.5:8080: connect: connection refused", msg.Detail)
	assert.NotEqual(t, msg.Message, msg.Detail)

	rejected := &docgen.RemoteError{Category: docgen.RemoteServerRejected, StatusCode: 503}
	msg = ToReportMessage(docgen.Report{Kind: docgen.ReportFailure, Message: rejected.Error(), Err: rejected})
	assert.Equal(t, "document service responded with status 503", msg.Detail)

	validation := &docgen.ValidationError{Field: docgen.FieldBody}
	msg = ToReportMessage(docgen.Report{Kind: docgen.ReportRejected, Message: validation.Error(), Err: validation})
	assert.Empty(t, msg.Detail)
}

func TestRejectedReportsHaveNoDomainEvent(t *testing.T) {
	_, ok := reportEvent(dto.SessionReportMessage{Kind: "rejected", Operation: "commit"})
	assert.False(t, ok)
}
