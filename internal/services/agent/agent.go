// Package agent invokes the external AI agents that build reports, deliver
// them by email and extract holdings from free-form files
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrAgentFailed   = errors.New("agent reported failure")
	ErrEmptyResponse = errors.New("empty response from agent")
	ErrUnknownAgent  = errors.New("unknown agent")
)

// Result is the payload envelope of a successful invocation.
// Result may hold an object or a JSON-encoded string, possibly nested.
type Result struct {
	Result json.RawMessage `json:"result,omitempty"`
}

// Response is what an agent invocation returns
type Response struct {
	Success     bool    `json:"success"`
	Response    *Result `json:"response,omitempty"`
	RawResponse string  `json:"raw_response,omitempty"`
	Error       string  `json:"error,omitempty"`
}

// Invoker sends a message to one agent
type Invoker interface {
	Invoke(ctx context.Context, message, agentID string) (*Response, error)
}

// Error wraps a failed agent call
type Error struct {
	AgentID   string
	Operation string
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("agent error [%s] %s: %v", e.AgentID, e.Operation, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Call invokes an agent and turns transport errors and unsuccessful
// responses into *Error
func Call(ctx context.Context, inv Invoker, agentID, operation, message string) (*Response, error) {
	resp, err := inv.Invoke(ctx, message, agentID)
	if err != nil {
		return nil, &Error{AgentID: agentID, Operation: operation, Err: err}
	}
	if resp == nil {
		return nil, &Error{AgentID: agentID, Operation: operation, Err: ErrEmptyResponse}
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "no error message"
		}
		return resp, &Error{AgentID: agentID, Operation: operation, Err: fmt.Errorf("%w: %s", ErrAgentFailed, msg)}
	}
	return resp, nil
}

// TextResult builds a successful response carrying plain text
func TextResult(text string) *Response {
	data, _ := json.Marshal(text)
	return &Response{Success: true, Response: &Result{Result: data}}
}
