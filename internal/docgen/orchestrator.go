package docgen

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"docpanel-be/internal/pkg/logger"
	"docpanel-be/internal/preview"

	"github.com/google/uuid"
)

const logModule = "DOCGEN"

// State is the position of a session in the generation workflow.
type State string

const (
	StateIdle              State = "idle"
	StateValidating        State = "validating"
	StateRequestingPreview State = "requesting_preview"
	StateRequestingCommit  State = "requesting_commit"
	StatePreviewReady      State = "preview_ready"
	StateCommitted         State = "committed"
)

type Options struct {
	Client   Client
	Previews *preview.Store
	Reporter Reporter
	// Saver is optional; when nil the download is only returned to the caller.
	Saver  Saver
	Logger logger.ILogger
	Now    func() time.Time
}

// PreviewResult describes the handle created by a successful preview.
type PreviewResult struct {
	Handle      preview.Handle
	ContentType string
	Pages       int
}

// Download is the file produced by a student commit.
type Download struct {
	Filename    string
	Content     []byte
	ContentType string
}

// CommitResult carries what a successful commit produced: a download for
// student documents, a persisted record for institutional ones.
type CommitResult struct {
	Mode      Mode
	SubjectID *int64
	Download  *Download
	Record    *Record
}

// Snapshot is a consistent copy of the session state.
type Snapshot struct {
	ID            uuid.UUID
	Mode          Mode
	State         State
	Generating    bool
	Form          Form
	PreviewHandle preview.Handle
	LockedFields  []string
}

// Orchestrator drives one generation session. All methods are safe for
// concurrent use; OpenPreview and Commit are serialized by the generating flag
// and never hold the lock across the remote call.
type Orchestrator struct {
	id   uuid.UUID
	mode Mode

	client   Client
	reporter Reporter
	saver    Saver
	logger   logger.ILogger
	now      func() time.Time

	mu         sync.Mutex
	form       Form
	locked     map[string]bool
	state      State
	generating bool
	epoch      uint64
	// previewSeq changes whenever the preview is closed, so a preview that
	// resolves afterwards is dropped.
	previewSeq uint64
	resource   *preview.Resource
}

// New opens a session. Fields present in initial are merged over an empty
// form; subject, document type and collaborator values seeded this way are
// locked for the rest of the session.
func New(id uuid.UUID, mode Mode, initial FormPatch, opts Options) (*Orchestrator, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("unknown document mode %q", mode)
	}
	if opts.Client == nil {
		return nil, errors.New("docgen: a document service client is required")
	}
	if opts.Previews == nil {
		return nil, errors.New("docgen: a preview store is required")
	}
	if opts.Reporter == nil {
		opts.Reporter = ReporterFunc(func(Report) {})
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNopLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Orchestrator{
		id:       id,
		mode:     mode,
		client:   opts.Client,
		reporter: opts.Reporter,
		saver:    opts.Saver,
		logger:   opts.Logger,
		now:      opts.Now,
		form:     NewForm(initial),
		locked:   lockedFields(initial),
		state:    StateIdle,
		resource: opts.Previews.NewResource(),
	}, nil
}

func lockedFields(initial FormPatch) map[string]bool {
	locked := make(map[string]bool)
	if initial.SubjectID != nil {
		locked[FieldSubjectID] = true
	}
	if initial.DocumentType != nil && *initial.DocumentType != "" {
		locked[FieldDocumentType] = true
	}
	if initial.CollaboratorName != nil && *initial.CollaboratorName != "" {
		locked[FieldCollaboratorName] = true
	}
	return locked
}

func (o *Orchestrator) ID() uuid.UUID {
	return o.id
}

func (o *Orchestrator) Mode() Mode {
	return o.mode
}

func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	handle, _ := o.resource.Current()
	locked := make([]string, 0, len(o.locked))
	for _, f := range []string{FieldSubjectID, FieldDocumentType, FieldCollaboratorName} {
		if o.locked[f] {
			locked = append(locked, f)
		}
	}
	return Snapshot{
		ID:            o.id,
		Mode:          o.mode,
		State:         o.state,
		Generating:    o.generating,
		Form:          o.form.Clone(),
		PreviewHandle: handle,
		LockedFields:  locked,
	}
}

// Patch applies field changes. Locked fields may only be rewritten with their
// current value.
func (o *Orchestrator) Patch(p FormPatch) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.locked[FieldSubjectID] && p.SubjectID != nil && !sameID(o.form.SubjectID, p.SubjectID) {
		return &FieldLockedError{Field: FieldSubjectID}
	}
	if o.locked[FieldSubjectID] && p.ClearSubject && o.form.SubjectID != nil {
		return &FieldLockedError{Field: FieldSubjectID}
	}
	if o.locked[FieldDocumentType] && p.DocumentType != nil && *p.DocumentType != o.form.DocumentType {
		return &FieldLockedError{Field: FieldDocumentType}
	}
	if o.locked[FieldCollaboratorName] && p.CollaboratorName != nil && *p.CollaboratorName != o.form.CollaboratorName {
		return &FieldLockedError{Field: FieldCollaboratorName}
	}
	o.form.Apply(p)
	return nil
}

// SelectSubject sets the student together with its display name.
func (o *Orchestrator) SelectSubject(id *int64, name string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.locked[FieldSubjectID] && !sameID(o.form.SubjectID, id) {
		return &FieldLockedError{Field: FieldSubjectID}
	}
	o.form.SelectSubject(id, name)
	return nil
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// OpenPreview validates the form, asks the document service for a preview and
// materializes it. A previous preview is released when the new one arrives.
func (o *Orchestrator) OpenPreview(ctx context.Context) (*PreviewResult, error) {
	o.mu.Lock()
	if o.generating {
		o.mu.Unlock()
		o.emit(o.rejected(OpPreview, ErrGenerationInProgress))
		return nil, ErrGenerationInProgress
	}
	if !o.mode.Capabilities().Preview {
		o.mu.Unlock()
		err := &UnsupportedModeError{Mode: o.mode, Operation: string(OpPreview)}
		o.emit(o.rejected(OpPreview, err))
		return nil, err
	}
	if err := o.validateLocked(); err != nil {
		o.mu.Unlock()
		o.emit(o.rejected(OpPreview, err))
		return nil, err
	}
	o.generating = true
	o.state = StateRequestingPreview
	epoch, seq := o.epoch, o.previewSeq
	form := o.form.Clone()
	o.mu.Unlock()

	var (
		artifact *Artifact
		err      error
	)
	switch o.mode {
	case ModeStudent:
		artifact, err = o.client.PreviewStudent(ctx, studentRequest(form))
	case ModeInstitution:
		artifact, err = o.client.PreviewInstitution(ctx, institutionRequest(form))
	}

	o.mu.Lock()
	if epoch != o.epoch {
		o.mu.Unlock()
		o.logDiscarded(OpPreview, err)
		return nil, ErrSessionClosed
	}
	o.generating = false
	if seq != o.previewSeq {
		o.mu.Unlock()
		o.logDiscarded(OpPreview, err)
		return nil, ErrPreviewClosed
	}

	if err == nil && artifact == nil {
		err = &RemoteError{Category: RemoteClientFault, Err: errors.New("document service returned no artifact")}
	}
	if err != nil {
		o.resource.Release()
		o.state = StateIdle
		o.mu.Unlock()
		remote := AsRemote(err)
		o.emit(o.failed(OpPreview, remote))
		return nil, remote
	}

	handle, info := o.resource.Materialize(artifact.Content, artifact.ContentType)
	o.state = StatePreviewReady
	o.mu.Unlock()

	if !info.IsPDF {
		o.logger.Warn(logModule, "Preview artifact is not a PDF", map[string]interface{}{
			"session_id":   o.id.String(),
			"content_type": info.ContentType,
		})
	}
	o.emit(Report{
		SessionID: o.id,
		Mode:      o.mode,
		Operation: OpPreview,
		Kind:      ReportSuccess,
		Message:   "Pré-visualização gerada.",
		SubjectID: form.SubjectID,
		At:        o.now(),
	})
	return &PreviewResult{Handle: handle, ContentType: info.ContentType, Pages: info.Pages}, nil
}

// ClosePreview releases any live preview and returns the session to Idle. It
// is safe to call at any time; a preview still in flight is discarded when it
// resolves, and the busy gate stays closed until then.
func (o *Orchestrator) ClosePreview() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.previewSeq++
	o.resource.Release()
	o.state = StateIdle
}

// Commit generates the final document. Student documents are downloaded
// through the Saver, institutional ones are persisted by the document service.
// On success the session is reset; on failure it stays open for a retry.
func (o *Orchestrator) Commit(ctx context.Context) (*CommitResult, error) {
	o.mu.Lock()
	if o.generating {
		o.mu.Unlock()
		o.emit(o.rejected(OpCommit, ErrGenerationInProgress))
		return nil, ErrGenerationInProgress
	}
	if err := o.validateLocked(); err != nil {
		o.mu.Unlock()
		o.emit(o.rejected(OpCommit, err))
		return nil, err
	}
	if o.mode.Capabilities().Commit == CommitUnsupported {
		o.mu.Unlock()
		err := &UnsupportedModeError{Mode: o.mode, Operation: "document generation"}
		o.emit(o.rejected(OpCommit, err))
		return nil, err
	}
	o.generating = true
	o.state = StateRequestingCommit
	epoch := o.epoch
	form := o.form.Clone()
	o.mu.Unlock()

	var (
		artifact *Artifact
		record   *Record
		err      error
	)
	switch o.mode {
	case ModeStudent:
		artifact, err = o.client.GenerateStudent(ctx, studentRequest(form))
	case ModeInstitution:
		record, err = o.client.GenerateAndPersistInstitution(ctx, institutionRequest(form))
	}

	o.mu.Lock()
	if epoch != o.epoch {
		o.mu.Unlock()
		o.logDiscarded(OpCommit, err)
		return nil, ErrSessionClosed
	}

	if err == nil && o.mode == ModeStudent && artifact == nil {
		err = &RemoteError{Category: RemoteClientFault, Err: errors.New("document service returned no artifact")}
	}
	result := &CommitResult{Mode: o.mode, SubjectID: form.SubjectID, Record: record}
	if err == nil && artifact != nil {
		result.Download = &Download{
			Filename:    DownloadFilename(form.SubjectName, o.now()),
			Content:     artifact.Content,
			ContentType: artifact.ContentType,
		}
		if o.saver != nil {
			if saveErr := o.saver.SaveAs(ctx, result.Download.Filename, artifact.Content); saveErr != nil {
				err = &RemoteError{Category: RemoteClientFault, Err: fmt.Errorf("save %s: %w", result.Download.Filename, saveErr)}
			}
		}
	}

	o.generating = false
	if err != nil {
		o.state = StateIdle
		if _, live := o.resource.Current(); live {
			o.state = StatePreviewReady
		}
		o.mu.Unlock()
		remote := AsRemote(err)
		o.emit(o.failed(OpCommit, remote))
		return nil, remote
	}

	o.state = StateCommitted
	o.resetLocked()
	o.mu.Unlock()

	rep := Report{
		SessionID: o.id,
		Mode:      result.Mode,
		Operation: OpCommit,
		Kind:      ReportSuccess,
		SubjectID: result.SubjectID,
		At:        o.now(),
	}
	switch result.Mode {
	case ModeStudent:
		rep.Message = "Documento gerado com sucesso!"
		rep.Filename = result.Download.Filename
	case ModeInstitution:
		rep.Message = "Documento institucional gerado e salvo com sucesso!"
		rep.SubjectID = nil
		if record != nil {
			id := record.ID
			rep.RecordID = &id
		}
	}
	o.emit(rep)
	return result, nil
}

// Reset tears the session down: the preview is released, the form cleared and
// any call still in flight will be discarded when it resolves.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.resetLocked()
}

func (o *Orchestrator) resetLocked() {
	o.epoch++
	o.generating = false
	o.resource.Release()
	o.form = Form{}
	o.locked = make(map[string]bool)
	o.state = StateIdle
}

func (o *Orchestrator) validateLocked() error {
	previous := o.state
	o.state = StateValidating
	err := Validate(o.mode, o.form)
	o.state = previous
	return err
}

func (o *Orchestrator) rejected(op Operation, err error) Report {
	return Report{
		SessionID: o.id,
		Mode:      o.mode,
		Operation: op,
		Kind:      ReportRejected,
		Message:   err.Error(),
		Err:       err,
		At:        o.now(),
	}
}

func (o *Orchestrator) failed(op Operation, err *RemoteError) Report {
	details := map[string]interface{}{
		"session_id": o.id.String(),
		"mode":       o.mode.String(),
		"operation":  string(op),
		"category":   string(err.Category),
	}
	if err.StatusCode != 0 {
		details["status_code"] = err.StatusCode
	}
	if err.Err != nil {
		details["error"] = err.Err.Error()
	}
	o.logger.Error(logModule, "Document generation failed", details)

	return Report{
		SessionID: o.id,
		Mode:      o.mode,
		Operation: op,
		Kind:      ReportFailure,
		Message:   err.Error(),
		Category:  err.Category,
		Err:       err,
		At:        o.now(),
	}
}

func (o *Orchestrator) logDiscarded(op Operation, err error) {
	details := map[string]interface{}{
		"session_id": o.id.String(),
		"mode":       o.mode.String(),
		"operation":  string(op),
	}
	if err != nil {
		details["error"] = err.Error()
	}
	o.logger.Info(logModule, "Discarding result of a closed session", details)
}

func (o *Orchestrator) emit(r Report) {
	o.reporter.Report(r)
}
