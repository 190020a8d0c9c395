package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/idtoken"
)

// Job describes one website audit request sent to the worker. The worker
// reports its findings back through the audit-result callback endpoint.
type Job struct {
	LeadID  string `json:"lead_id"`
	Website string `json:"website"`
}

// Enqueuer submits audit jobs to the worker service.
type Enqueuer interface {
	Enqueue(ctx context.Context, job Job, requestID string) error
}

// WorkerClient posts audit jobs to the audit worker over HTTP.
type WorkerClient struct {
	client  *http.Client
	baseURL string
}

// NewWorkerClient builds a worker client. When client is nil it attempts an
// ID-token client for Cloud Run to Cloud Run calls and falls back to a plain
// HTTP client outside that environment.
func NewWorkerClient(client *http.Client, baseURL string) *WorkerClient {
	if baseURL == "" {
		panic("audit worker baseURL must not be empty")
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if client == nil {
		idc, err := idtoken.NewClient(context.Background(), baseURL)
		if err != nil {
			client = &http.Client{Timeout: 10 * time.Second}
		} else {
			client = idc
		}
	}
	return &WorkerClient{client: client, baseURL: baseURL}
}

// Enqueue posts the job to the worker's /audit endpoint.
func (c *WorkerClient) Enqueue(ctx context.Context, job Job, requestID string) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal audit job: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audit", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build audit worker request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("audit worker request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("audit worker error: %s", extractWorkerError(resp.Body))
	}

	var workerResp struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&workerResp); err != nil && err != io.EOF {
		return fmt.Errorf("could not decode audit worker response: %w", err)
	}
	if workerResp.Error != "" {
		return fmt.Errorf("audit worker error: %s", workerResp.Error)
	}
	return nil
}

func extractWorkerError(body io.Reader) string {
	data, err := io.ReadAll(body)
	if err != nil || len(data) == 0 {
		return "worker returned an error"
	}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return string(data)
}

var _ Enqueuer = (*WorkerClient)(nil)
