package scheduler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/findosh/stockpulse/internal/models"
)

// HTTPClient is the JSON HTTP client for the hosted scheduler
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPClient creates a scheduler client
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// envelope is the shape of every scheduler response
type envelope struct {
	Success    bool                  `json:"success"`
	Error      string                `json:"error,omitempty"`
	Schedules  []models.Schedule     `json:"schedules,omitempty"`
	Executions []models.ExecutionLog `json:"executions,omitempty"`
	ScheduleID string                `json:"schedule_id,omitempty"`
}

// List returns every schedule owned by the account
func (c *HTTPClient) List(ctx context.Context) ([]models.Schedule, error) {
	var out envelope
	if err := c.do(ctx, http.MethodGet, "/schedules", nil, &out); err != nil {
		return nil, err
	}
	return out.Schedules, nil
}

// Pause deactivates a schedule
func (c *HTTPClient) Pause(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/schedules/"+url.PathEscape(id)+"/pause", nil, nil)
}

// Resume activates a schedule
func (c *HTTPClient) Resume(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/schedules/"+url.PathEscape(id)+"/resume", nil, nil)
}

// Logs returns the most recent executions of a schedule, newest first
func (c *HTTPClient) Logs(ctx context.Context, id string, limit int) ([]models.ExecutionLog, error) {
	if limit <= 0 {
		limit = DefaultLogLimit
	}
	path := "/schedules/" + url.PathEscape(id) + "/logs?limit=" + strconv.Itoa(limit)

	var out envelope
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Executions, nil
}

// UpdateMessage replaces the payload sent on each run and returns the id
// the schedule has afterwards
func (c *HTTPClient) UpdateMessage(ctx context.Context, id, message string) (string, error) {
	body := map[string]string{"message": message}

	var out envelope
	if err := c.do(ctx, http.MethodPut, "/schedules/"+url.PathEscape(id)+"/message", body, &out); err != nil {
		return "", err
	}
	if out.ScheduleID == "" {
		return id, nil
	}
	return out.ScheduleID, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body any, out *envelope) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusNotFound {
		return ErrScheduleNotFound
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("API error %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
		}
		return fmt.Errorf("decode scheduler response: %w", err)
	}
	if !env.Success || resp.StatusCode >= 300 {
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("%w: %s", ErrSchedulerFailed, msg)
	}

	if out != nil {
		*out = env
	}
	return nil
}
