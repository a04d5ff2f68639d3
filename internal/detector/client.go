package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/textlens/textlens/internal/highlight"
)

// APIError is returned when the service answers with a non-2xx status.
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

// maxErrorBody is how many runes of a response body Error reports.
const maxErrorBody = 200

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if short := Truncate(body, maxErrorBody); short != body {
		body = short + "..."
	}
	return fmt.Sprintf("detector %s returned status %d: %s", e.Endpoint, e.StatusCode, body)
}

// Client is the HTTP implementation of Detector.
type Client struct {
	baseURL       string
	maxTextLength int
	client        *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.client.Timeout = d }
}

// WithMaxTextLength overrides DefaultMaxTextLength.
func WithMaxTextLength(n int) Option {
	return func(c *Client) { c.maxTextLength = n }
}

// NewClient creates a client for the service at baseURL, e.g.
// http://127.0.0.1:8000.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		maxTextLength: DefaultMaxTextLength,
		client:        &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string { return c.baseURL }

type predictRequest struct {
	Text string `json:"text"`
}

// Predict posts text to /predict.
func (c *Client) Predict(ctx context.Context, text string) (*Result, error) {
	body, err := json.Marshal(predictRequest{Text: Truncate(text, c.maxTextLength)})
	if err != nil {
		return nil, fmt.Errorf("marshalling predict request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.do(req, "/predict")
}

// AnalyzeFile uploads r as the multipart field "file" to /analyze-file.
func (c *Client) AnalyzeFile(ctx context.Context, name string, r io.Reader) (*Result, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return nil, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze-file", &buf)
	if err != nil {
		return nil, fmt.Errorf("creating analyze-file request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	return c.do(req, "/analyze-file")
}

func (c *Client) do(req *http.Request, endpoint string) (*Result, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("detector %s request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading detector %s response: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var result Result
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("decoding detector %s response: %w", endpoint, err)
	}
	if result.Probabilities == nil {
		result.Probabilities = map[string]float64{}
	}
	if result.Explanation == nil {
		result.Explanation = highlight.ExplanationSet{}
	}
	return &result, nil
}
