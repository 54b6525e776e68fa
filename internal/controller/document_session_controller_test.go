package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"docpanel-be/internal/docgen"
	"docpanel-be/internal/pkg/logger"
	"docpanel-be/internal/pkg/serverutils"
	"docpanel-be/internal/preview"
	"docpanel-be/internal/repository/memory"
	"docpanel-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var samplePDF = []byte("%PDF-1.4\n%%EOF\n")

type pdfClient struct{}

func (pdfClient) PreviewStudent(context.Context, docgen.StudentDocumentRequest) (*docgen.Artifact, error) {
	return &docgen.Artifact{Content: samplePDF, ContentType: "application/pdf"}, nil
}

func (pdfClient) PreviewInstitution(context.Context, docgen.InstitutionDocumentRequest) (*docgen.Artifact, error) {
	return &docgen.Artifact{Content: samplePDF, ContentType: "application/pdf"}, nil
}

func (pdfClient) GenerateStudent(context.Context, docgen.StudentDocumentRequest) (*docgen.Artifact, error) {
	return &docgen.Artifact{Content: samplePDF, ContentType: "application/pdf"}, nil
}

func (pdfClient) GenerateAndPersistInstitution(_ context.Context, req docgen.InstitutionDocumentRequest) (*docgen.Record, error) {
	return &docgen.Record{ID: 31, Title: req.Title, DocumentType: req.DocumentType, CreatedAt: "2024-03-09"}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

type sessionView struct {
	Id           string   `json:"id"`
	Mode         string   `json:"mode"`
	State        string   `json:"state"`
	PreviewUrl   string   `json:"preview_url"`
	LockedFields []string `json:"locked_fields"`
	Capabilities struct {
		Preview     bool   `json:"preview"`
		Commit      string `json:"commit"`
		CommitLabel string `json:"commit_label"`
	} `json:"capabilities"`
}

func newTestApp(t *testing.T) (*fiber.App, *preview.Store) {
	t.Helper()
	sessions := memory.NewSessionRepository(time.Hour, time.Hour)
	previews := preview.NewStore()
	t.Cleanup(func() { sessions.CloseAll() })

	svc := service.NewDocumentSessionService(service.DocumentSessionServiceDeps{
		Sessions: sessions,
		Previews: previews,
		Client:   pdfClient{},
		Logger:   logger.NewNopLogger(),
		BaseURL:  "http://api.test",
	})

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewDocumentSessionController(svc).RegisterRoutes(app.Group("/api"))
	return app, previews
}

func do(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decodeView(t *testing.T, raw []byte) (envelope, sessionView) {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	var view sessionView
	if len(env.Data) > 0 && string(env.Data) != "null" {
		require.NoError(t, json.Unmarshal(env.Data, &view))
	}
	return env, view
}

func TestOpenValidatesMode(t *testing.T) {
	app, _ := newTestApp(t)

	resp, raw := do(t, app, http.MethodPost, "/api/document-sessions", map[string]interface{}{"mode": "manager"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	env, _ := decodeView(t, raw)
	assert.False(t, env.Success)
	assert.Contains(t, string(env.Errors), "Mode")
}

func TestStudentSessionOverHTTP(t *testing.T) {
	app, previews := newTestApp(t)

	resp, raw := do(t, app, http.MethodPost, "/api/document-sessions", map[string]interface{}{
		"mode": "aluno",
		"initial": map[string]interface{}{
			"subject_id":    42,
			"subject_name":  "Maria Souza",
			"document_type": "Atestado",
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	_, view := decodeView(t, raw)
	assert.Equal(t, "student", view.Mode)
	assert.Equal(t, "Gerar e Baixar PDF", view.Capabilities.CommitLabel)
	base := "/api/document-sessions/" + view.Id

	// Body is still missing.
	resp, raw = do(t, app, http.MethodPost, base+"/preview", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	env, _ := decodeView(t, raw)
	assert.Equal(t, "O campo Corpo do Documento é obrigatório.", env.Message)

	resp, _ = do(t, app, http.MethodPatch, base+"/fields", map[string]interface{}{"document_type": "Outro"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = do(t, app, http.MethodPatch, base+"/fields", map[string]interface{}{"body": "Declaramos que..."})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw = do(t, app, http.MethodPost, base+"/preview", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var env2 envelope
	require.NoError(t, json.Unmarshal(raw, &env2))
	var pv struct {
		Handle string `json:"handle"`
		Url    string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(env2.Data, &pv))
	assert.Equal(t, "http://api.test/api/previews/"+pv.Handle, pv.Url)

	resp, raw = do(t, app, http.MethodGet, "/api/previews/"+pv.Handle, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Equal(t, samplePDF, raw)

	resp, raw = do(t, app, http.MethodPost, base+"/commit", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "documento_maria_souza_")
	assert.Equal(t, samplePDF, raw)
	assert.Equal(t, 0, previews.Live())

	resp, _ = do(t, app, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, app, http.MethodGet, "/api/previews/"+pv.Handle, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInstitutionCommitReturnsRecord(t *testing.T) {
	app, _ := newTestApp(t)

	resp, raw := do(t, app, http.MethodPost, "/api/document-sessions", map[string]interface{}{
		"mode": "institution",
		"initial": map[string]interface{}{
			"title":         "Calendário 2024",
			"body":          "Texto",
			"document_type": "Comunicado",
			"document_date": "2024-03-09",
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	_, view := decodeView(t, raw)

	resp, raw = do(t, app, http.MethodPost, "/api/document-sessions/"+view.Id+"/commit", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.Equal(t, "Documento institucional gerado e salvo com sucesso!", env.Message)
	assert.JSONEq(t, `{"id":31,"title":"Calendário 2024","document_type":"Comunicado","created_at":"2024-03-09"}`, string(env.Data))
}

func TestCollaboratorPreviewUnsupported(t *testing.T) {
	app, _ := newTestApp(t)

	resp, raw := do(t, app, http.MethodPost, "/api/document-sessions", map[string]interface{}{"mode": "colaborador"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_, view := decodeView(t, raw)
	assert.False(t, view.Capabilities.Preview)

	resp, _ = do(t, app, http.MethodPost, "/api/document-sessions/"+view.Id+"/preview", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInvalidSessionID(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := do(t, app, http.MethodGet, "/api/document-sessions/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, http.MethodDelete, "/api/document-sessions/7d0e6c7e-9f55-4b8e-a7a4-0a3f6f2d1c11", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPatchFieldsClearAndDateValidation(t *testing.T) {
	app, _ := newTestApp(t)

	resp, raw := do(t, app, http.MethodPost, "/api/document-sessions", map[string]interface{}{
		"mode":    "institution",
		"initial": map[string]interface{}{"document_date": "2024-03-09"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_, view := decodeView(t, raw)
	path := "/api/document-sessions/" + view.Id + "/fields"

	resp, _ = do(t, app, http.MethodPatch, path, map[string]interface{}{"document_date": "09/03/2024"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, http.MethodPatch, path, map[string]interface{}{"clear": []string{"title"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, raw = do(t, app, http.MethodPatch, path, map[string]interface{}{"document_date": ""})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	env, _ := decodeView(t, raw)
	assert.JSONEq(t, `null`, string(mustField(t, mustField(t, env.Data, "form"), "document_date")))
}
