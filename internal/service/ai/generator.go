package ai

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/policypal/backend/internal/config"
)

// Service answers HR policy queries through a hosted chat model. It is a
// best-effort collaborator: callers must tolerate errors and slow responses.
type Service struct {
	chatModel model.ChatModel
	cfg       config.AIConfig
	chain     compose.Runnable[map[string]any, *schema.Message]
}

// NewService builds the generation chain: policy context as the system
// message, the user query appended after it.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{policy}"),
		schema.UserMessage("User Query: {query}\n\nAI Response:"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile generation chain: %w", err)
	}

	return &Service{
		chatModel: chatModel,
		cfg:       cfg,
		chain:     runnable,
	}, nil
}

// Generate produces free-text for the query grounded on the policy context.
// Empty model output is reported as an error so the caller can substitute its
// fallback answer.
func (s *Service) Generate(ctx context.Context, policyContext, userQuery string) (string, error) {
	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.cfg.RequestTimeout)*time.Second)
		defer cancel()
	}

	response, err := s.chain.Invoke(ctx, map[string]any{
		"policy": policyContext,
		"query":  userQuery,
	})
	if err != nil {
		return "", fmt.Errorf("failed to run generation chain: %w", err)
	}

	if response == nil || strings.TrimSpace(response.Content) == "" {
		return "", fmt.Errorf("generation chain returned empty response")
	}

	log.Printf("[ai] generated response, length=%d", len(response.Content))
	return response.Content, nil
}
