package main

import (
	"context"
	"errors"
	"testing"

	"docpanel-be/internal/docgen"
	"docpanel-be/internal/preview"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type unreachableClient struct{}

func (unreachableClient) PreviewStudent(context.Context, docgen.StudentDocumentRequest) (*docgen.Artifact, error) {
	return nil, &docgen.RemoteError{Category: docgen.RemoteUnreachable, Err: errors.New("connection refused")}
}

func (unreachableClient) PreviewInstitution(context.Context, docgen.InstitutionDocumentRequest) (*docgen.Artifact, error) {
	return nil, &docgen.RemoteError{Category: docgen.RemoteUnreachable, Err: errors.New("connection refused")}
}

func (unreachableClient) GenerateStudent(context.Context, docgen.StudentDocumentRequest) (*docgen.Artifact, error) {
	return nil, &docgen.RemoteError{Category: docgen.RemoteUnreachable, Err: errors.New("connection refused")}
}

func (unreachableClient) GenerateAndPersistInstitution(context.Context, docgen.InstitutionDocumentRequest) (*docgen.Record, error) {
	return nil, &docgen.RemoteError{Category: docgen.RemoteUnreachable, Err: errors.New("connection refused")}
}

func TestSessionFailuresArePrintedOnce(t *testing.T) {
	var reports int
	id, body, docType := int64(42), "Texto", "Atestado"
	o, err := docgen.New(uuid.New(), docgen.ModeStudent, docgen.FormPatch{
		SubjectID:    &id,
		Body:         &body,
		DocumentType: &docType,
	}, docgen.Options{
		Client:   unreachableClient{},
		Previews: preview.NewStore(),
		Reporter: docgen.ReporterFunc(func(docgen.Report) { reports++ }),
	})
	require.NoError(t, err)

	_, err = o.Commit(context.Background())
	err = reported(err)
	require.Error(t, err)
	assert.Equal(t, 1, reports)

	_, printed := failureMessage(err)
	assert.False(t, printed)

	var remote *docgen.RemoteError
	assert.ErrorAs(t, err, &remote)
}

func TestFailureMessageForUnreportedErrors(t *testing.T) {
	msg, ok := failureMessage(errors.New(`invalid --date "x", expected YYYY-MM-DD`))
	assert.True(t, ok)
	assert.Contains(t, msg, "--date")

	_, ok = failureMessage(reported(docgen.ErrSessionClosed))
	assert.True(t, ok)

	assert.NoError(t, reported(nil))
}
