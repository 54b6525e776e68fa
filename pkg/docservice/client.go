// Package docservice talks to the remote document generation and storage
// service over HTTP/JSON.
package docservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"docpanel-be/internal/docgen"
)

const (
	pathStudentGenerate        = "/documentos/gerar-pdf"
	pathStudentDocuments       = "/documentos/aluno/%d"
	pathStudentDocument        = "/documentos/%d"
	pathInstitutionPreview     = "/institucional/pre-visualizar"
	pathInstitutionPersist     = "/institucional/gerar-e-salvar"
	pathInstitutionList        = "/institucional/listar"
	pathInstitutionGet         = "/institucional/listarUm/%d"
	pathInstitutionDelete      = "/institucional/deletar/%d"
	pathSubject                = "/alunos/listarUm/%d"
	maxErrorBodyBytes          = 2048
	defaultContentTypeArtifact = "application/pdf"
)

// Client implements docgen.Client and the archive operations.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

var _ docgen.Client = (*Client)(nil)

func (c *Client) PreviewStudent(ctx context.Context, req docgen.StudentDocumentRequest) (*docgen.Artifact, error) {
	return c.postForArtifact(ctx, pathStudentGenerate, req)
}

func (c *Client) GenerateStudent(ctx context.Context, req docgen.StudentDocumentRequest) (*docgen.Artifact, error) {
	return c.postForArtifact(ctx, pathStudentGenerate, req)
}

func (c *Client) PreviewInstitution(ctx context.Context, req docgen.InstitutionDocumentRequest) (*docgen.Artifact, error) {
	return c.postForArtifact(ctx, pathInstitutionPreview, req)
}

func (c *Client) GenerateAndPersistInstitution(ctx context.Context, req docgen.InstitutionDocumentRequest) (*docgen.Record, error) {
	var rec docgen.Record
	if err := c.doJSON(ctx, http.MethodPost, pathInstitutionPersist, nil, req, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *Client) ListInstitutional(ctx context.Context, title string, page, size int) (*Page[docgen.Record], error) {
	q := pageQuery(page, size)
	if title != "" {
		q.Set("titulo", title)
	}
	var out Page[docgen.Record]
	if err := c.doJSON(ctx, http.MethodGet, pathInstitutionList, q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetInstitutional(ctx context.Context, id int64) (*docgen.Record, error) {
	var rec docgen.Record
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf(pathInstitutionGet, id), nil, nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *Client) DeleteInstitutional(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf(pathInstitutionDelete, id), nil, nil, nil)
}

func (c *Client) ListStudentDocuments(ctx context.Context, studentID int64, term string, page, size int) (*Page[StudentRecord], error) {
	q := pageQuery(page, size)
	if term != "" {
		q.Set("termo", term)
	}
	var out Page[StudentRecord]
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf(pathStudentDocuments, studentID), q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetStudentDocument(ctx context.Context, id int64) (*StudentRecord, error) {
	var rec StudentRecord
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf(pathStudentDocument, id), nil, nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *Client) DeleteStudentDocument(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf(pathStudentDocument, id), nil, nil, nil)
}

// GetSubject looks up a student, used to fill the display name of a session
// opened with a pre-selected subject.
func (c *Client) GetSubject(ctx context.Context, id int64) (*Subject, error) {
	var s Subject
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf(pathSubject, id), nil, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func pageQuery(page, size int) url.Values {
	q := url.Values{}
	q.Set("page", fmt.Sprint(page))
	q.Set("size", fmt.Sprint(size))
	return q
}

func (c *Client) postForArtifact(ctx context.Context, path string, body interface{}) (*docgen.Artifact, error) {
	resp, err := c.send(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &docgen.RemoteError{Category: docgen.RemoteUnreachable, Err: fmt.Errorf("read artifact: %w", err)}
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultContentTypeArtifact
	}
	return &docgen.Artifact{Content: content, ContentType: contentType}, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	resp, err := c.send(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &docgen.RemoteError{Category: docgen.RemoteClientFault, Err: fmt.Errorf("decode %s %s: %w", method, path, err)}
	}
	return nil
}

// send returns a response with a 2xx status or a categorized error.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body interface{}) (*http.Response, error) {
	endpoint := c.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &docgen.RemoteError{Category: docgen.RemoteClientFault, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, &docgen.RemoteError{Category: docgen.RemoteClientFault, Err: fmt.Errorf("build request: %w", err)}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) && isMalformedURL(urlErr) {
			return nil, &docgen.RemoteError{Category: docgen.RemoteClientFault, Err: err}
		}
		return nil, &docgen.RemoteError{Category: docgen.RemoteUnreachable, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, &docgen.RemoteError{
			Category:   docgen.RemoteServerRejected,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s %s: %s: %s", method, path, resp.Status, strings.TrimSpace(string(snippet))),
		}
	}
	return resp, nil
}

// isMalformedURL separates request errors caused by our own configuration from
// transport failures.
func isMalformedURL(err *url.Error) bool {
	msg := err.Err.Error()
	return strings.Contains(msg, "unsupported protocol scheme") || strings.Contains(msg, "no Host in request URL")
}
