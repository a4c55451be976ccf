package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lingoflash/internal/config"
)

type fakeProvider struct {
	calls atomic.Int32
	errs  []error
	resp  *Response
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Generate(ctx context.Context, req *Request) (*Response, error) {
	n := int(f.calls.Add(1)) - 1
	if n < len(f.errs) && f.errs[n] != nil {
		return nil, f.errs[n]
	}
	return f.resp, nil
}

func fastConfig() ResilientConfig {
	return ResilientConfig{
		MaxAttempts:   3,
		InitialDelay:  time.Millisecond,
		MaxConcurrent: 2,
		RatePerSecond: 100,
	}
}

func TestOpenAIProvider_Generate(t *testing.T) {
	var got openaiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","choices":[{"message":{"role":"assistant","content":"Cześć!"},"finish_reason":"stop"}],"usage":{"prompt_tokens":12,"completion_tokens":3}}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL + "/"})
	resp, err := p.Generate(context.Background(), &Request{
		System:   "You are a tutor.",
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
		JSON:     true,
	})
	require.NoError(t, err)

	assert.Equal(t, "Cześć!", resp.Content)
	assert.Equal(t, "stop", resp.FinishReason)
	assert.Equal(t, Usage{InputTokens: 12, OutputTokens: 3}, resp.Usage)

	assert.Equal(t, "gpt-4o-mini", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "You are a tutor.", got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
}

func TestOpenAIProvider_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"slow down"}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider(OpenAIConfig{APIKey: "k", BaseURL: srv.URL})
	_, err := p.Generate(context.Background(), &Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	require.Error(t, err)

	assert.Equal(t, http.StatusTooManyRequests, StatusCode(err))
	assert.True(t, IsRateLimited(err))
	assert.Contains(t, err.Error(), "slow down")
}

func TestOpenAIProvider_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider(OpenAIConfig{APIKey: "k", BaseURL: srv.URL})
	_, err := p.Generate(context.Background(), &Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestToGeminiContents(t *testing.T) {
	history, last, err := toGeminiContents([]Message{
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, Content: "hello"},
		{Role: RoleSystem, Content: "ignored"},
		{Role: RoleUser, Content: "how are you?"},
	})
	require.NoError(t, err)

	assert.Equal(t, "how are you?", last)
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "model", history[1].Role)
}

func TestToGeminiContents_LastMustBeUser(t *testing.T) {
	_, _, err := toGeminiContents([]Message{{Role: RoleAssistant, Content: "hello"}})
	assert.Error(t, err)

	_, _, err = toGeminiContents(nil)
	assert.Error(t, err)
}

func TestStatusCode(t *testing.T) {
	wrapped := errors.Join(errors.New("outer"), &StatusError{Provider: "x", Code: 503})
	assert.Equal(t, 503, StatusCode(wrapped))
	assert.Equal(t, 0, StatusCode(errors.New("plain")))
	assert.True(t, IsRateLimited(ErrRateLimited))
	assert.False(t, IsRateLimited(&StatusError{Code: 500}))
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limited", &StatusError{Code: 429}, true},
		{"server error", &StatusError{Code: 500}, true},
		{"bad gateway", &StatusError{Code: 502}, true},
		{"unavailable", &StatusError{Code: 503}, true},
		{"gateway timeout", &StatusError{Code: 504}, true},
		{"bad request", &StatusError{Code: 400}, false},
		{"unauthorized", &StatusError{Code: 401}, false},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryable(tt.err))
		})
	}
}

func TestResilientProvider_RetriesServerErrors(t *testing.T) {
	fake := &fakeProvider{
		errs: []error{&StatusError{Code: 500}, &StatusError{Code: 503}},
		resp: &Response{Content: "ok"},
	}
	rp := NewResilientProvider(fake, fastConfig())
	defer rp.Close()

	resp, err := rp.Generate(context.Background(), &Request{})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, int32(3), fake.calls.Load())
}

func TestResilientProvider_NoRetryOnClientError(t *testing.T) {
	fake := &fakeProvider{errs: []error{&StatusError{Code: 400}}, resp: &Response{Content: "ok"}}
	rp := NewResilientProvider(fake, fastConfig())
	defer rp.Close()

	_, err := rp.Generate(context.Background(), &Request{})
	assert.Error(t, err)
	assert.Equal(t, int32(1), fake.calls.Load())
}

func TestResilientProvider_GivesUpAfterMaxAttempts(t *testing.T) {
	fail := &StatusError{Code: 502}
	fake := &fakeProvider{errs: []error{fail, fail, fail, fail}, resp: &Response{Content: "ok"}}
	rp := NewResilientProvider(fake, fastConfig())
	defer rp.Close()

	_, err := rp.Generate(context.Background(), &Request{})
	assert.Error(t, err)
	assert.Equal(t, int32(3), fake.calls.Load())
}

func TestResilientProvider_RateLimit(t *testing.T) {
	fake := &fakeProvider{resp: &Response{Content: "ok"}}
	cfg := fastConfig()
	cfg.RatePerSecond = 1
	rp := NewResilientProvider(fake, cfg)
	defer rp.Close()

	var limited int
	for i := 0; i < 10; i++ {
		if _, err := rp.Generate(context.Background(), &Request{}); errors.Is(err, ErrRateLimited) {
			limited++
		}
	}
	assert.Greater(t, limited, 0)
	assert.Less(t, int(fake.calls.Load()), 10)
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.Generate(context.Background(), &Request{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestFromConfig(t *testing.T) {
	p, closeFn, err := FromConfig(context.Background(), &config.Config{LLMProvider: config.LLMProviderNone})
	require.NoError(t, err)
	assert.Equal(t, "none", p.Name())
	assert.NoError(t, closeFn())

	p, closeFn, err = FromConfig(context.Background(), &config.Config{
		LLMProvider:      config.LLMProviderOpenAI,
		OpenAIAPIKey:     "k",
		LLMMaxRetries:    2,
		LLMRatePerSecond: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())
	_, ok := p.(*ResilientProvider)
	assert.True(t, ok)
	assert.NoError(t, closeFn())

	_, _, err = FromConfig(context.Background(), &config.Config{LLMProvider: "bogus"})
	assert.Error(t, err)
}
