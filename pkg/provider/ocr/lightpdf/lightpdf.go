// Package lightpdf provides an OCR provider backed by a LightPDF-style
// document analysis HTTP service. The service exposes two endpoints:
//
//	POST /v1/cni/extract   multipart image upload, returns extracted fields
//	POST /v1/cni/validate  multipart image upload, returns detection only
//
// Both endpoints answer JSON. A 200 with "detected": false means the service
// processed the image but found no identity card in it.
package lightpdf

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/akwaba-labs/djobi/pkg/provider/ocr"
)

const defaultTimeout = 30 * time.Second

// Option is a functional option for the Provider.
type Option func(*Provider)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) {
		p.httpClient = c
	}
}

// WithTimeout sets the per-request timeout on the default HTTP client.
// Ignored when WithHTTPClient is also supplied.
func WithTimeout(d time.Duration) Option {
	return func(p *Provider) {
		p.timeout = d
	}
}

// Provider implements ocr.Provider against a remote document analysis service.
type Provider struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

// New creates a Provider for the service at baseURL (e.g.,
// "https://ocr.example.com"). baseURL must be non-empty; apiKey may be empty
// for unauthenticated deployments.
func New(baseURL, apiKey string, opts ...Option) (*Provider, error) {
	if baseURL == "" {
		return nil, errors.New("lightpdf: baseURL must not be empty")
	}
	p := &Provider{
		baseURL: baseURL,
		apiKey:  apiKey,
		timeout: defaultTimeout,
	}
	for _, o := range opts {
		o(p)
	}
	if p.httpClient == nil {
		p.httpClient = &http.Client{Timeout: p.timeout}
	}
	return p, nil
}

// extractResponse is the JSON body returned by both service endpoints.
type extractResponse struct {
	Detected bool `json:"detected"`
	Fields   struct {
		Number    string `json:"numero"`
		LastName  string `json:"nom"`
		FirstName string `json:"prenom"`
	} `json:"fields"`
}

// Extract uploads the image for full field extraction.
func (p *Provider) Extract(ctx context.Context, image []byte) (*ocr.Result, error) {
	resp, err := p.post(ctx, "/v1/cni/extract", image)
	if err != nil {
		return nil, err
	}
	if !resp.Detected {
		return nil, ocr.ErrNotDetected
	}
	return &ocr.Result{
		Detected: true,
		Fields: &ocr.Fields{
			Number:    resp.Fields.Number,
			LastName:  resp.Fields.LastName,
			FirstName: resp.Fields.FirstName,
		},
	}, nil
}

// Validate uploads the image for detection only.
func (p *Provider) Validate(ctx context.Context, image []byte) (bool, error) {
	resp, err := p.post(ctx, "/v1/cni/validate", image)
	if err != nil {
		return false, err
	}
	return resp.Detected, nil
}

// post uploads image as multipart/form-data to the given path and decodes the
// JSON response.
func (p *Provider) post(ctx context.Context, path string, image []byte) (*extractResponse, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("image", "document.jpg")
	if err != nil {
		return nil, fmt.Errorf("lightpdf: create form file: %w", err)
	}
	if _, err := fw.Write(image); err != nil {
		return nil, fmt.Errorf("lightpdf: write image data: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("lightpdf: close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, &body)
	if err != nil {
		return nil, fmt.Errorf("lightpdf: create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lightpdf: http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lightpdf: server returned HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("lightpdf: read response body: %w", err)
	}

	var out extractResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("lightpdf: parse JSON response: %w", err)
	}
	return &out, nil
}

// Ensure Provider implements ocr.Provider at compile time.
var _ ocr.Provider = (*Provider)(nil)
