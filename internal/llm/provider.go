// Package llm talks to hosted language models for exercise generation and
// tutoring chat.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotConfigured = errors.New("llm provider not configured")
	ErrRateLimited   = errors.New("llm rate limit exceeded")
	ErrEmptyResponse = errors.New("llm returned no content")
)

// Provider defines the interface for LLM providers
type Provider interface {
	Name() string
	Generate(ctx context.Context, req *Request) (*Response, error)
}

// Request represents an LLM request
type Request struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	System      string
	// JSON asks the provider for a JSON object response where supported.
	JSON bool
}

// Message represents a chat message
type Message struct {
	Role    Role
	Content string
}

// Role represents the role of a message sender
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Response represents an LLM response
type Response struct {
	Content      string
	FinishReason string
	Usage        Usage
}

// Usage tracks token usage
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// StatusError is a non-2xx answer from a provider API.
type StatusError struct {
	Provider string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.Code, e.Body)
}

// StatusCode extracts the HTTP status of a provider failure, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

// IsRateLimited reports whether err means the caller should back off.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited) || StatusCode(err) == http.StatusTooManyRequests
}

// Disabled is used when no provider is configured; every call fails with
// ErrNotConfigured so callers can fall back.
type Disabled struct{}

func (Disabled) Name() string { return "none" }

func (Disabled) Generate(context.Context, *Request) (*Response, error) {
	return nil, ErrNotConfigured
}
