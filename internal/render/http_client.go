package render

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ServiceError represents an error response from the render service.
type ServiceError struct {
	StatusCode int
	Body       string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("render service: HTTP %d: %s", e.StatusCode, e.Body)
}

// IsRetryable returns true for server errors (5xx). Client errors (4xx) are
// permanent.
func (e *ServiceError) IsRetryable() bool {
	return e.StatusCode >= 500
}

// HTTPClient talks to the real render service over HTTP with bearer auth.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewHTTPClient(baseURL, token string, logger *slog.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}
}

func (c *HTTPClient) SubmitRender(ctx context.Context, req Request) (string, error) {
	var resp struct {
		JobID string `json:"job_id"`
	}
	if err := c.post(ctx, "/api/render", req, &resp); err != nil {
		return "", err
	}
	if resp.JobID == "" {
		return "", fmt.Errorf("render service returned no job id")
	}
	if c.logger != nil {
		c.logger.Info("render job submitted", "job_id", resp.JobID, "segments", len(req.Sequence))
	}
	return resp.JobID, nil
}

func (c *HTTPClient) RenderStatus(ctx context.Context, jobID string) (*Status, error) {
	var status Status
	if err := c.get(ctx, "/api/render/"+jobID, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *HTTPClient) SubmitGeneration(ctx context.Context, req GenerationRequest) (*GenerationResult, error) {
	var result GenerationResult
	if err := c.post(ctx, "/api/generate", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) GenerationStatus(ctx context.Context, taskID string) (*GenerationStatus, error) {
	var status GenerationStatus
	if err := c.get(ctx, "/api/generate/"+taskID, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *HTTPClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, out)
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("X-Reelbeat-Request-Id", newRequestID())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &ServiceError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}

func newRequestID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:])
}
