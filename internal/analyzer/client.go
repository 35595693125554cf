package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"

	"github.com/iammorganparry/taskplanner/internal/models"
)

// ErrAnalysisInFlight is returned when a second analysis is requested
// while one is still outstanding. Only one request may be in flight.
var ErrAnalysisInFlight = errors.New("an analysis request is already in flight")

// RemoteError is an explicit failure signal from the analyzer: it
// responded, but with a non-success status and a detail message.
type RemoteError struct {
	StatusCode int
	Detail     string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("analyzer returned %d: %s", e.StatusCode, e.Detail)
}

// Client is the dashboard's port to the external analyzer. The analyzer is
// a black box reached over HTTP; the client only knows the request and
// response shapes.
type Client struct {
	baseURL    string
	httpClient *http.Client
	inFlight   atomic.Bool
}

// NewClient builds a client for the analyzer at baseURL. No timeout is
// set: a call fails only on an explicit non-success response or a
// transport-level error, and the caller's context governs cancellation.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

// Analyze sends the task list and strategy to the analyzer and returns the
// scored tasks. A second call while one is outstanding fails immediately
// with ErrAnalysisInFlight; the store and graph remain valid after any
// failure.
func (c *Client) Analyze(ctx context.Context, strategy models.Strategy, tasks []models.Task) ([]models.ScoredTask, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, ErrAnalysisInFlight
	}
	defer c.inFlight.Store(false)

	payload, err := json.Marshal(models.AnalyzeRequest{
		Strategy: string(strategy),
		Tasks:    tasks,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal analyze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/tasks/analyze", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analyzer request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read analyzer response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		detail := "error analyzing tasks"
		var failure struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(body, &failure) == nil && failure.Detail != "" {
			detail = failure.Detail
		}
		return nil, &RemoteError{StatusCode: resp.StatusCode, Detail: detail}
	}

	var result models.AnalyzeResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode analyzer response: %w", err)
	}
	return result.Tasks, nil
}

// HealthCheck verifies the analyzer is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tasks/suggest", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("analyzer health check: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("analyzer health check: status %d", resp.StatusCode)
	}
	return nil
}
