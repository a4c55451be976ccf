package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"github.com/vytor/lingoflash/internal/logger"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
)

// GeminiProvider implements Provider on top of the Gemini SDK.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// GeminiConfig holds configuration for the Gemini provider
type GeminiConfig struct {
	APIKey string
	Model  string // default: gemini-1.5-flash
}

func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return &GeminiProvider{client: client, model: cfg.Model}, nil
}

func (p *GeminiProvider) Name() string {
	return "gemini"
}

func (p *GeminiProvider) Close() error {
	return p.client.Close()
}

func (p *GeminiProvider) Generate(ctx context.Context, req *Request) (*Response, error) {
	log := logger.FromContext(ctx).WithPrefix("gemini")

	name := req.Model
	if name == "" {
		name = p.model
	}
	// GenerativeModel values carry per-call settings, so each call gets its own.
	model := p.client.GenerativeModel(name)
	if req.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}
	if req.Temperature > 0 {
		model.SetTemperature(float32(req.Temperature))
	}
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	if req.JSON {
		model.ResponseMIMEType = "application/json"
	}

	history, last, err := toGeminiContents(req.Messages)
	if err != nil {
		return nil, err
	}
	session := model.StartChat()
	session.History = history

	resp, err := session.SendMessage(ctx, genai.Text(last))
	if err != nil {
		log.Error("Gemini API error: %v", err)
		return nil, geminiError(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ErrEmptyResponse
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return nil, ErrEmptyResponse
	}

	out := &Response{
		Content:      sb.String(),
		FinishReason: resp.Candidates[0].FinishReason.String(),
	}
	if resp.UsageMetadata != nil {
		out.Usage = Usage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}
	return out, nil
}

// toGeminiContents splits messages into prior history and the final user
// turn. Gemini calls the assistant role "model".
func toGeminiContents(messages []Message) ([]*genai.Content, string, error) {
	if len(messages) == 0 || messages[len(messages)-1].Role != RoleUser {
		return nil, "", errors.New("gemini: last message must come from the user")
	}

	history := make([]*genai.Content, 0, len(messages)-1)
	for _, m := range messages[:len(messages)-1] {
		role := "user"
		switch m.Role {
		case RoleAssistant:
			role = "model"
		case RoleSystem:
			continue
		}
		history = append(history, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(m.Content)}})
	}
	return history, messages[len(messages)-1].Content, nil
}

// geminiError maps SDK errors onto StatusError so retry and rate limit
// handling treat every provider alike.
func geminiError(err error) error {
	var apiErr *apierror.APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	code := apiErr.HTTPCode()
	if code <= 0 && apiErr.GRPCStatus() != nil {
		switch apiErr.GRPCStatus().Code() {
		case codes.ResourceExhausted:
			code = http.StatusTooManyRequests
		case codes.Unavailable:
			code = http.StatusServiceUnavailable
		case codes.DeadlineExceeded:
			code = http.StatusGatewayTimeout
		case codes.InvalidArgument:
			code = http.StatusBadRequest
		case codes.PermissionDenied, codes.Unauthenticated:
			code = http.StatusForbidden
		default:
			code = http.StatusInternalServerError
		}
	}
	return &StatusError{Provider: "gemini", Code: code, Body: apiErr.Error()}
}
