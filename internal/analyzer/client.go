// Package analyzer is the client for the external lab-document analysis
// service. The service is a black box reachable over HTTP: it receives one
// batched list of absolute file paths and returns a per-file outcome with an
// opaque data object for each successfully analyzed document.
//
// The client never mutates records; mapping outcomes back onto documents is
// the reconciliation step in the labdocs domain.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	// ErrUnavailable signals a transport-level failure: connection refused,
	// DNS failure, or timeout. The batch never reached the service.
	ErrUnavailable = errors.New("analysis service unavailable")
	// ErrRejected signals that the service answered but the answer is
	// unusable: non-2xx status or a body that does not match the contract.
	ErrRejected = errors.New("analysis service rejected the request")
)

// StatusSuccess is the per-file status the service reports for a document it
// analyzed successfully. Any other status counts as a declared failure.
const StatusSuccess = "success"

// FileResult is one per-file outcome from the batched analysis call.
type FileResult struct {
	File   string          `json:"file"`
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// Client is the contract the upload pipeline depends on. Tests substitute a
// deterministic stub.
type Client interface {
	Analyze(ctx context.Context, filePaths []string) ([]FileResult, error)
}

// analyzeRequest is the wire request: one batched call per upload, not one
// call per file.
type analyzeRequest struct {
	FilePaths []string `json:"file_paths"`
}

type analyzeResponse struct {
	Results []FileResult `json:"results"`
}

// HTTPClient talks to the analysis service over HTTP.
type HTTPClient struct {
	url    string
	client *http.Client
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient overrides the underlying http.Client (used by tests).
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.client = c }
}

// WithTimeout sets the per-call timeout. Analysis of a large batch of scans
// is slow, so the default is generous.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTPClient) { h.client.Timeout = d }
}

// NewHTTPClient creates a client for the analysis service at url.
func NewHTTPClient(url string, opts ...Option) *HTTPClient {
	h := &HTTPClient{
		url:    url,
		client: &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Analyze sends the batched request and returns the per-file outcomes. The
// returned slice may cover only a subset of filePaths, contain entries for
// unknown paths, or contain duplicates; the caller owns that reconciliation.
func (h *HTTPClient) Analyze(ctx context.Context, filePaths []string) ([]FileResult, error) {
	body, err := json.Marshal(analyzeRequest{FilePaths: filePaths})
	if err != nil {
		return nil, fmt.Errorf("marshal analyze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		// Covers connection refused, DNS errors, client timeout, and
		// context cancellation/deadline. All mean the batch outcome is
		// unknown, which the pipeline treats as total failure.
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}

	var decoded analyzeResponse
	dec := json.NewDecoder(io.LimitReader(resp.Body, 64*1024*1024))
	if err := dec.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: undecodable body: %v", ErrRejected, err)
	}
	// An absent results field and a wrong-typed one collapse to the same
	// outcome: the response does not match the contract.
	if decoded.Results == nil {
		return nil, fmt.Errorf("%w: response has no results field", ErrRejected)
	}

	return decoded.Results, nil
}
