package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/lingoflash/internal/errors"
	"github.com/vytor/lingoflash/internal/llm"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/repository"
)

const (
	maxChatMessageRunes = 500
	maxHistoryItemRunes = 800
	maxHistoryItems     = 10
	chatReplyTokens     = 250

	DefaultChatHistoryLimit = 20
	MaxChatHistoryLimit     = 100

	emptyReplyPlaceholder = "(no reply)"
)

// ChatTurn is one prior message supplied by the client.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatService runs the tutoring chat
type ChatService interface {
	Chat(ctx context.Context, userID, message string, history []ChatTurn) (string, error)
	History(ctx context.Context, userID string, limit int) ([]models.ChatMessage, error)
	ClearHistory(ctx context.Context, userID string) (int64, error)
	Ping(ctx context.Context) (string, error)
}

type chatService struct {
	chatRepo    repository.ChatRepository
	profileRepo repository.ProfileRepository
	llm         llm.Provider
	now         func() time.Time
}

// NewChatService creates a new ChatService
func NewChatService(chatRepo repository.ChatRepository, profileRepo repository.ProfileRepository, provider llm.Provider) ChatService {
	if provider == nil {
		provider = llm.Disabled{}
	}
	return &chatService{
		chatRepo:    chatRepo,
		profileRepo: profileRepo,
		llm:         provider,
		now:         time.Now,
	}
}

func (s *chatService) Chat(ctx context.Context, userID, message string, history []ChatTurn) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("chat_service")

	if userID == "" {
		return "", errors.NewUnauthorizedError("unauthorized")
	}
	msg := truncateRunes(strings.TrimSpace(message), maxChatMessageRunes)
	if msg == "" {
		return "", errors.NewValidationError("message", "is required")
	}

	profile, err := s.profileRepo.Get(ctx, userID)
	if err != nil {
		log.Error("failed to get profile: %v", err)
		return "", errors.NewInternalError(err)
	}

	messages := append(cleanHistory(history), llm.Message{Role: llm.RoleUser, Content: msg})
	resp, err := s.llm.Generate(ctx, &llm.Request{
		System:    tutorSystemPrompt(profile),
		Messages:  messages,
		MaxTokens: chatReplyTokens,
	})

	var reply string
	switch {
	case err == nil:
		reply = strings.TrimSpace(resp.Content)
	case stderrors.Is(err, llm.ErrEmptyResponse):
		log.Warn("LLM returned an empty reply: user_id=%s", userID)
	default:
		return "", llmError(ctx, err)
	}

	stored := reply
	if stored == "" {
		stored = emptyReplyPlaceholder
	}
	now := s.now()
	err = s.chatRepo.Insert(ctx,
		models.ChatMessage{ID: uuid.NewString(), UserID: userID, Role: models.ChatRoleUser, Content: msg, CreatedAt: now},
		// assistant reply sorts after the question it answers
		models.ChatMessage{ID: uuid.NewString(), UserID: userID, Role: models.ChatRoleAssistant, Content: stored, CreatedAt: now.Add(time.Millisecond)},
	)
	if err != nil {
		log.Error("failed to save chat messages: %v", err)
		return "", errors.NewInternalError(err)
	}

	log.Info("chat reply sent: user_id=%s, history=%d", userID, len(messages)-1)
	return reply, nil
}

func (s *chatService) History(ctx context.Context, userID string, limit int) ([]models.ChatMessage, error) {
	log := logger.FromContext(ctx).WithPrefix("chat_service")

	if userID == "" {
		return nil, errors.NewUnauthorizedError("unauthorized")
	}
	limit = ClampHistoryLimit(limit)

	msgs, err := s.chatRepo.Recent(ctx, userID, limit)
	if err != nil {
		log.Error("failed to load chat history: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if msgs == nil {
		msgs = []models.ChatMessage{}
	}
	return msgs, nil
}

func (s *chatService) ClearHistory(ctx context.Context, userID string) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("chat_service")

	if userID == "" {
		return 0, errors.NewUnauthorizedError("unauthorized")
	}
	n, err := s.chatRepo.DeleteByUser(ctx, userID)
	if err != nil {
		log.Error("failed to clear chat history: %v", err)
		return 0, errors.NewInternalError(err)
	}
	log.Info("chat history cleared: user_id=%s, deleted=%d", userID, n)
	return n, nil
}

// Ping makes a minimal LLM call to check the provider is reachable.
func (s *chatService) Ping(ctx context.Context) (string, error) {
	resp, err := s.llm.Generate(ctx, &llm.Request{
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: "Reply with one short sentence: OK, it works."}},
		MaxTokens: 50,
	})
	if err != nil {
		return "", llmError(ctx, err)
	}
	return strings.TrimSpace(resp.Content), nil
}

// ClampHistoryLimit bounds a requested history size to 1..100; zero or less
// means the default.
func ClampHistoryLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultChatHistoryLimit
	case limit > MaxChatHistoryLimit:
		return MaxChatHistoryLimit
	default:
		return limit
	}
}

// cleanHistory keeps the last ten client-supplied turns that carry a known
// role and non-blank content.
func cleanHistory(history []ChatTurn) []llm.Message {
	if len(history) > maxHistoryItems {
		history = history[len(history)-maxHistoryItems:]
	}
	out := make([]llm.Message, 0, len(history)+1)
	for _, h := range history {
		role := llm.Role(h.Role)
		if role != llm.RoleUser && role != llm.RoleAssistant {
			continue
		}
		content := strings.TrimSpace(h.Content)
		if content == "" {
			continue
		}
		out = append(out, llm.Message{Role: role, Content: truncateRunes(content, maxHistoryItemRunes)})
	}
	return out
}

func tutorSystemPrompt(p *models.Profile) string {
	language, level, goal := models.DefaultLanguage, models.DefaultLevel, "general"
	if p != nil {
		language, level = p.Language, p.Level
		if p.Goal != nil && *p.Goal != "" {
			goal = *p.Goal
		}
	}
	return fmt.Sprintf(`You are a language-learning assistant (%s). Learner level: %s. Goal: %s.
Rules:
- Answer briefly and clearly.
- If the learner makes a language mistake, correct it and explain in 1-2 sentences.
- Always finish with one short exercise: a single sentence to complete.
- No long lectures.`, language, level, goal)
}

func llmError(ctx context.Context, err error) error {
	log := logger.FromContext(ctx).WithPrefix("chat_service")
	if llm.IsRateLimited(err) {
		log.Warn("LLM rate limited: %v", err)
		return errors.NewRateLimitedError("AI tutor is busy, try again shortly", err)
	}
	log.Error("LLM call failed: %v", err)
	return errors.NewExternalServiceError("AI tutor", err)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
