package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"docpanel-be/internal/docgen"
	"docpanel-be/internal/dto"
	"docpanel-be/internal/pkg/logger"
	"docpanel-be/internal/pkg/serverutils"
	"docpanel-be/internal/preview"
	"docpanel-be/internal/repository/memory"
	"docpanel-be/pkg/docservice"

	"github.com/google/uuid"
)

// SubjectLookup resolves a student id to its display record.
type SubjectLookup interface {
	GetSubject(ctx context.Context, id int64) (*docservice.Subject, error)
}

type IDocumentSessionService interface {
	Open(ctx context.Context, req *dto.OpenSessionRequest) (*dto.SessionResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, error)
	Patch(ctx context.Context, id uuid.UUID, req *dto.PatchFieldsRequest) (*dto.SessionResponse, error)
	SelectSubject(ctx context.Context, id uuid.UUID, req *dto.SelectSubjectRequest) (*dto.SessionResponse, error)
	Preview(ctx context.Context, id uuid.UUID) (*dto.PreviewResponse, error)
	ClosePreview(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, error)
	Commit(ctx context.Context, id uuid.UUID) (*docgen.CommitResult, error)
	Close(ctx context.Context, id uuid.UUID) error
	OpenPreviewArtifact(ctx context.Context, handle string) (*preview.Artifact, error)
}

type DocumentSessionServiceDeps struct {
	Sessions *memory.SessionRepository
	Previews *preview.Store
	Client   docgen.Client
	Subjects SubjectLookup
	Reporter docgen.Reporter
	// Saver is handed to every session; nil keeps downloads in the response.
	Saver   docgen.Saver
	Logger  logger.ILogger
	BaseURL string
}

type documentSessionService struct {
	sessions *memory.SessionRepository
	previews *preview.Store
	client   docgen.Client
	subjects SubjectLookup
	reporter docgen.Reporter
	saver    docgen.Saver
	logger   logger.ILogger
	baseURL  string
}

func NewDocumentSessionService(deps DocumentSessionServiceDeps) IDocumentSessionService {
	return &documentSessionService{
		sessions: deps.Sessions,
		previews: deps.Previews,
		client:   deps.Client,
		subjects: deps.Subjects,
		reporter: deps.Reporter,
		saver:    deps.Saver,
		logger:   deps.Logger,
		baseURL:  strings.TrimRight(deps.BaseURL, "/"),
	}
}

func (s *documentSessionService) Open(ctx context.Context, req *dto.OpenSessionRequest) (*dto.SessionResponse, error) {
	mode, err := docgen.ParseMode(req.Mode)
	if err != nil {
		return nil, &serverutils.RequestValidationError{Fields: map[string]string{"mode": "oneof"}}
	}

	initial, err := toFormPatch(req.Initial)
	if err != nil {
		return nil, err
	}

	if mode == docgen.ModeStudent && initial.SubjectID != nil && initial.SubjectName == nil {
		if name, ok := s.lookupSubjectName(ctx, *initial.SubjectID); ok {
			initial.SubjectName = &name
		}
	}

	o, err := docgen.New(uuid.New(), mode, initial, docgen.Options{
		Client:   s.client,
		Previews: s.previews,
		Reporter: s.reporter,
		Saver:    s.saver,
		Logger:   s.logger,
	})
	if err != nil {
		return nil, err
	}
	s.sessions.Save(o)

	s.logger.Info("SESSION", "Document session opened", map[string]interface{}{
		"session_id": o.ID().String(),
		"mode":       mode.String(),
	})
	return s.toSessionResponse(o.Snapshot()), nil
}

func (s *documentSessionService) Get(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, error) {
	o, err := s.load(id)
	if err != nil {
		return nil, err
	}
	return s.toSessionResponse(o.Snapshot()), nil
}

func (s *documentSessionService) Patch(ctx context.Context, id uuid.UUID, req *dto.PatchFieldsRequest) (*dto.SessionResponse, error) {
	o, err := s.load(id)
	if err != nil {
		return nil, err
	}
	patch, err := toFormPatch(&req.DocumentFields)
	if err != nil {
		return nil, err
	}
	for _, field := range req.Clear {
		switch field {
		case docgen.FieldSubjectID:
			patch.ClearSubject = true
		case docgen.FieldDocumentDate:
			patch.ClearDocumentDate = true
		}
	}
	if err := o.Patch(patch); err != nil {
		return nil, err
	}
	return s.toSessionResponse(o.Snapshot()), nil
}

func (s *documentSessionService) SelectSubject(ctx context.Context, id uuid.UUID, req *dto.SelectSubjectRequest) (*dto.SessionResponse, error) {
	o, err := s.load(id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if req.Id != nil && name == "" {
		if looked, ok := s.lookupSubjectName(ctx, *req.Id); ok {
			name = looked
		}
	}
	if err := o.SelectSubject(req.Id, name); err != nil {
		return nil, err
	}
	return s.toSessionResponse(o.Snapshot()), nil
}

func (s *documentSessionService) Preview(ctx context.Context, id uuid.UUID) (*dto.PreviewResponse, error) {
	o, err := s.load(id)
	if err != nil {
		return nil, err
	}
	res, err := o.OpenPreview(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.PreviewResponse{
		Handle:      res.Handle.String(),
		Url:         s.previewURL(res.Handle),
		ContentType: res.ContentType,
		Pages:       res.Pages,
	}, nil
}

func (s *documentSessionService) ClosePreview(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, error) {
	o, err := s.load(id)
	if err != nil {
		return nil, err
	}
	o.ClosePreview()
	return s.toSessionResponse(o.Snapshot()), nil
}

// Commit runs the terminal action. A committed session is finished and leaves
// the registry; a failed one stays open for another attempt.
func (s *documentSessionService) Commit(ctx context.Context, id uuid.UUID) (*docgen.CommitResult, error) {
	o, err := s.load(id)
	if err != nil {
		return nil, err
	}
	result, err := o.Commit(ctx)
	if err != nil {
		return nil, err
	}
	s.sessions.Delete(id)
	return result, nil
}

func (s *documentSessionService) Close(ctx context.Context, id uuid.UUID) error {
	if _, err := s.load(id); err != nil {
		return err
	}
	s.sessions.Delete(id)
	s.logger.Info("SESSION", "Document session closed", map[string]interface{}{
		"session_id": id.String(),
	})
	return nil
}

func (s *documentSessionService) OpenPreviewArtifact(ctx context.Context, handle string) (*preview.Artifact, error) {
	return s.previews.Open(preview.Handle(handle))
}

// load fetches a session and refreshes its expiration.
func (s *documentSessionService) load(id uuid.UUID) (*docgen.Orchestrator, error) {
	o, ok := s.sessions.Get(id)
	if !ok {
		return nil, docgen.ErrSessionNotFound
	}
	s.sessions.Save(o)
	return o, nil
}

func (s *documentSessionService) lookupSubjectName(ctx context.Context, id int64) (string, bool) {
	if s.subjects == nil {
		return "", false
	}
	subject, err := s.subjects.GetSubject(ctx, id)
	if err != nil || subject == nil {
		details := map[string]interface{}{"subject_id": id}
		if err != nil {
			details["error"] = err.Error()
		}
		s.logger.Warn("SESSION", "Subject lookup failed", details)
		return "", false
	}
	return subject.Name, true
}

func (s *documentSessionService) previewURL(h preview.Handle) string {
	return fmt.Sprintf("%s/api/previews/%s", s.baseURL, h)
}

func (s *documentSessionService) toSessionResponse(snap docgen.Snapshot) *dto.SessionResponse {
	caps := snap.Mode.Capabilities()
	res := &dto.SessionResponse{
		Id:         snap.ID,
		Mode:       snap.Mode.String(),
		State:      string(snap.State),
		Generating: snap.Generating,
		Form: dto.SessionFormResponse{
			Header:           snap.Form.Header,
			Body:             snap.Form.Body,
			Footer:           snap.Form.Footer,
			SubjectId:        snap.Form.SubjectID,
			SubjectName:      snap.Form.SubjectName,
			CollaboratorName: snap.Form.CollaboratorName,
			DocumentType:     snap.Form.DocumentType,
			Title:            snap.Form.Title,
		},
		LockedFields: snap.LockedFields,
		Capabilities: dto.SessionCapabilities{
			Preview:      caps.Preview,
			Commit:       string(caps.Commit),
			CommitLabel:  caps.CommitLabel,
			HeaderFooter: caps.HeaderFooter,
		},
	}
	if snap.Form.DocumentDate != nil {
		d := snap.Form.DocumentDate.Format(docgen.DateLayout)
		res.Form.DocumentDate = &d
	}
	if snap.PreviewHandle != "" {
		res.PreviewUrl = s.previewURL(snap.PreviewHandle)
	}
	return res
}

func toFormPatch(f *dto.DocumentFields) (docgen.FormPatch, error) {
	if f == nil {
		return docgen.FormPatch{}, nil
	}
	patch := docgen.FormPatch{
		Header:           f.Header,
		Body:             f.Body,
		Footer:           f.Footer,
		SubjectID:        f.SubjectId,
		SubjectName:      f.SubjectName,
		CollaboratorName: f.CollaboratorName,
		DocumentType:     f.DocumentType,
		Title:            f.Title,
	}
	if f.DocumentDate != nil && *f.DocumentDate == "" {
		patch.ClearDocumentDate = true
	} else if f.DocumentDate != nil {
		d, err := time.Parse(docgen.DateLayout, *f.DocumentDate)
		if err != nil {
			return docgen.FormPatch{}, &serverutils.RequestValidationError{Fields: map[string]string{"document_date": "datetime"}}
		}
		patch.DocumentDate = &d
	}
	return patch, nil
}
