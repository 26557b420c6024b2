package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// HTTPInvoker calls the hosted agent pipeline over JSON HTTP.
// Calls are not retried.
type HTTPInvoker struct {
	baseURL    string
	apiKey     string
	userID     string
	httpClient *http.Client
}

// NewHTTPInvoker creates an invoker for the hosted pipeline
func NewHTTPInvoker(cfg *Config) *HTTPInvoker {
	return &HTTPInvoker{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		userID:  cfg.UserID,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type invokeRequest struct {
	Message   string `json:"message"`
	AgentID   string `json:"agent_id"`
	UserID    string `json:"user_id,omitempty"`
	SessionID string `json:"session_id"`
}

// Invoke posts the message to {base}/agents/invoke
func (c *HTTPInvoker) Invoke(ctx context.Context, message, agentID string) (*Response, error) {
	jsonBody, err := json.Marshal(invokeRequest{
		Message:   message,
		AgentID:   agentID,
		UserID:    c.userID,
		SessionID: uuid.New().String(),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/agents/invoke", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var out Response
	decodeErr := json.Unmarshal(body, &out)

	if resp.StatusCode != http.StatusOK {
		if decodeErr == nil && out.Error != "" {
			out.Success = false
			return &out, nil
		}
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if decodeErr != nil {
		// Not an envelope; keep the body so the unwrap fallback can still try it
		return &Response{Success: true, RawResponse: string(body)}, nil
	}
	if out.RawResponse == "" {
		out.RawResponse = string(body)
	}
	return &out, nil
}
