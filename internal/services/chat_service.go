package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"google.golang.org/genai"

	apperrors "budgetly/internal/errors"
	"budgetly/internal/logger"
	"budgetly/internal/money"
)

// Chat roles accepted from clients.
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ContentGenerator is the part of the genai client the chat assistant
// needs. *genai.Models satisfies it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ChatConfig configures the chat assistant.
type ChatConfig struct {
	Model        string
	SystemPrompt string
	Currency     string
}

// chatService answers questions with Gemini, grounded on the owner's
// account budgets.
type chatService struct {
	accounts  AccountServicer
	generator ContentGenerator
	cfg       ChatConfig
}

// NewChatService creates a new ChatServicer backed by generator.
func NewChatService(accounts AccountServicer, generator ContentGenerator, cfg ChatConfig) ChatServicer {
	return &chatService{accounts: accounts, generator: generator, cfg: cfg}
}

// NewGeminiChatService connects to the Gemini API with apiKey.
func NewGeminiChatService(ctx context.Context, apiKey string, accounts AccountServicer, cfg ChatConfig) (ChatServicer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return NewChatService(accounts, client.Models, cfg), nil
}

// Reply sends the conversation to the model and returns its answer. The
// last message must come from the user.
func (s *chatService) Reply(ctx context.Context, userID string, messages []ChatMessage) (string, error) {
	if len(messages) == 0 {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "at least one message is required")
	}
	if messages[len(messages)-1].Role != ChatRoleUser {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "last message must come from the user")
	}

	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		role, ok := genaiRole(m.Role)
		if !ok {
			return "", apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("unknown role %q", m.Role))
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}

	summary, err := s.accountSummary(ctx, userID)
	if err != nil {
		return "", err
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: s.cfg.SystemPrompt + "\n\n" + summary}},
		},
	}

	resp, err := s.generator.GenerateContent(ctx, s.cfg.Model, contents, config)
	if err != nil {
		logger.Get().Errorw("chat completion failed", "error", err, "user_id", userID, "model", s.cfg.Model)
		return "", apperrors.Wrap(apperrors.ErrUpstreamFailure, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", apperrors.WithMessage(apperrors.ErrUpstreamFailure, "empty response from model")
	}
	return text, nil
}

func genaiRole(role string) (string, bool) {
	switch role {
	case ChatRoleUser:
		return string(genai.RoleUser), true
	case ChatRoleAssistant:
		return string(genai.RoleModel), true
	}
	return "", false
}

// accountSummary describes the owner's accounts in the display currency.
func (s *chatService) accountSummary(ctx context.Context, userID string) (string, error) {
	accounts, err := s.accounts.ListAccountsWithBudget(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(accounts) == 0 {
		return "The user has no accounts yet.", nil
	}

	var b strings.Builder
	b.WriteString("The user's accounts:\n")
	for _, a := range accounts {
		fmt.Fprintf(&b, "- %s: budget %s, remaining %s\n",
			a.Name, s.formatOptional(a.Budget), s.formatOptional(a.RemainingBudget))
	}
	return b.String(), nil
}

func (s *chatService) formatOptional(v *float64) string {
	if v == nil {
		return "not set"
	}
	return money.Format(decimal.NewFromFloat(*v), s.cfg.Currency)
}
