package service

import (
	"context"
	"testing"

	"docpanel-be/internal/docgen"
	"docpanel-be/internal/dto"
	"docpanel-be/internal/pkg/logger"
	"docpanel-be/pkg/docservice"
	"docpanel-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubArchive struct {
	lastTitle string
	lastPage  int
	lastSize  int
	deleted   []int64
}

func (a *stubArchive) ListInstitutional(_ context.Context, title string, page, size int) (*docservice.Page[docgen.Record], error) {
	a.lastTitle, a.lastPage, a.lastSize = title, page, size
	return &docservice.Page[docgen.Record]{
		Content:       []docgen.Record{{ID: 1, Title: "Calendário", DocumentType: "Comunicado", CreatedAt: "2024-03-09"}},
		TotalPages:    3,
		TotalElements: 21,
		Number:        page,
		Size:          size,
	}, nil
}

func (a *stubArchive) GetInstitutional(_ context.Context, id int64) (*docgen.Record, error) {
	return &docgen.Record{ID: id, Title: "Foto", Content: "aGVsbG8=", ContentType: "image/png"}, nil
}

func (a *stubArchive) DeleteInstitutional(_ context.Context, id int64) error {
	a.deleted = append(a.deleted, id)
	return nil
}

func (a *stubArchive) ListStudentDocuments(_ context.Context, _ int64, term string, page, size int) (*docservice.Page[docservice.StudentRecord], error) {
	a.lastTitle, a.lastPage, a.lastSize = term, page, size
	return &docservice.Page[docservice.StudentRecord]{
		Content: []docservice.StudentRecord{{
			ID:           3,
			Title:        "Atestado",
			DocumentType: &docservice.DocumentTypeRef{ID: 2, Name: "Atestado médico"},
			DocumentDate: "2024-02-01",
			Student:      &docservice.Subject{ID: 42, Name: "João"},
		}},
		TotalPages:    1,
		TotalElements: 1,
		Number:        page,
		Size:          size,
	}, nil
}

func (a *stubArchive) GetStudentDocument(_ context.Context, id int64) (*docservice.StudentRecord, error) {
	return &docservice.StudentRecord{ID: id, Title: "Sem arquivo"}, nil
}

func (a *stubArchive) DeleteStudentDocument(_ context.Context, id int64) error {
	a.deleted = append(a.deleted, id)
	return nil
}

func TestListInstitutionalUsesDefaultPageSize(t *testing.T) {
	archive := &stubArchive{}
	svc := NewDocumentArchiveService(archive, nil, logger.NewNopLogger(), 10)

	res, err := svc.ListInstitutional(context.Background(), &dto.ArchiveListQuery{Search: "cal", Page: 2})
	require.NoError(t, err)

	assert.Equal(t, "cal", archive.lastTitle)
	assert.Equal(t, 2, archive.lastPage)
	assert.Equal(t, 10, archive.lastSize)
	assert.Equal(t, 3, res.TotalPages)
	assert.Equal(t, int64(21), res.TotalElements)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Comunicado", res.Items[0].DocumentType)
}

func TestDocumentDetailClassifiesPreview(t *testing.T) {
	svc := NewDocumentArchiveService(&stubArchive{}, nil, logger.NewNopLogger(), 10)

	inst, err := svc.GetInstitutional(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "image", inst.PreviewKind)
	assert.Equal(t, "aGVsbG8=", inst.Content)

	student, err := svc.GetStudentDocument(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "empty", student.PreviewKind)
}

func TestStudentDocumentsCarrySubject(t *testing.T) {
	archive := &stubArchive{}
	svc := NewDocumentArchiveService(archive, nil, logger.NewNopLogger(), 0)

	res, err := svc.ListStudentDocuments(context.Background(), 42, &dto.ArchiveListQuery{Size: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, archive.lastSize)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Atestado médico", res.Items[0].DocumentType)
	require.NotNil(t, res.Items[0].SubjectId)
	assert.Equal(t, int64(42), *res.Items[0].SubjectId)
	assert.Equal(t, "João", res.Items[0].SubjectName)
}

func TestDeletePublishesEvent(t *testing.T) {
	archive := &stubArchive{}
	evts := &memoryEvents{}
	svc := NewDocumentArchiveService(archive, evts, logger.NewNopLogger(), 10)

	require.NoError(t, svc.DeleteInstitutional(context.Background(), 8))
	require.NoError(t, svc.DeleteStudentDocument(context.Background(), 9))

	assert.Equal(t, []int64{8, 9}, archive.deleted)
	assert.Equal(t, []string{events.DocumentDeleted, events.DocumentDeleted}, evts.Types())
}
