package labdocs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/labtrend/labtrend/internal/analyzer"
	"github.com/labtrend/labtrend/internal/platform/blobstore"
)

func multipartBody(t *testing.T, names ...string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, name := range names {
		part, err := w.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		io.WriteString(part, "file-content")
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestHandler_Upload_ReturnsPerFileStatus(t *testing.T) {
	repo := &mockRepo{}
	client := &stubClient{fn: func(paths []string) ([]analyzer.FileResult, error) {
		return []analyzer.FileResult{
			successResult(paths[0]),
			{File: paths[1], Status: "error"},
		}, nil
	}}
	h := NewHandler(newTestService(repo, client))

	body, contentType := multipartBody(t, "morning.pdf", "evening.pdf")
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Upload(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(resp))
	}
	if resp[0].Status != StatusCompleted || resp[1].Status != StatusError {
		t.Errorf("expected [Completed, Error], got [%s, %s]", resp[0].Status, resp[1].Status)
	}
	if resp[0].AnalysisJSON == nil {
		t.Error("expected inlined analysis payload on completed document")
	}
	if resp[0].FileName != "morning.pdf" {
		t.Errorf("expected original file name preserved, got %s", resp[0].FileName)
	}
}

func TestHandler_Upload_NoFiles(t *testing.T) {
	h := NewHandler(newTestService(&mockRepo{}, &stubClient{fn: func([]string) ([]analyzer.FileResult, error) {
		return nil, nil
	}}))

	body, contentType := multipartBody(t)
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Upload(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHandler_Upload_AnalyzerDown_Returns503WithDocuments(t *testing.T) {
	client := &stubClient{fn: func([]string) ([]analyzer.FileResult, error) {
		return nil, fmt.Errorf("%w: connection refused", analyzer.ErrUnavailable)
	}}
	h := NewHandler(newTestService(&mockRepo{}, client))

	body, contentType := multipartBody(t, "scan.pdf")
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Upload(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	var resp uploadErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Error == "" {
		t.Error("expected explanatory error message")
	}
	if len(resp.Documents) != 1 || resp.Documents[0].Status != StatusError {
		t.Errorf("expected one Error document in 503 body, got %+v", resp.Documents)
	}
}

func TestHandler_List(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, blobstore.NewMemStore(), &stubClient{fn: func(paths []string) ([]analyzer.FileResult, error) {
		results := make([]analyzer.FileResult, 0, len(paths))
		for _, p := range paths {
			results = append(results, successResult(p))
		}
		return results, nil
	}}, zerolog.Nop())

	if _, err := svc.Upload(context.Background(), batchFiles(2)); err != nil {
		t.Fatalf("seeding upload: %v", err)
	}

	h := NewHandler(svc)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp) != 2 {
		t.Errorf("expected 2 documents, got %d", len(resp))
	}
}
