package chat

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/policypal/backend/internal/analysis/confidence"
	"github.com/policypal/backend/internal/model/chat"
	"github.com/policypal/backend/internal/model/policy"
	"github.com/policypal/backend/internal/store/conversation"
)

// ErrEmptyMessage guards Submit against blank input. The UI disables the send
// button for empty text, so hitting this is a caller bug rather than a user
// error.
var ErrEmptyMessage = errors.New("message text is empty")

const (
	greetingText = "Hello! I'm the HR Policy AI Assistant. How can I help you with our company's HR policies today?"

	degradedGreetingText = "Hello! I'm the HR Policy AI Assistant. (Note: History couldn't be loaded)"

	fallbackAnswerText = "I apologize, but I'm having trouble connecting. Please try again."

	saveWarning = "Your latest messages might not be stored."
	loadWarning = "Your conversation history could not be loaded."
)

// Generator produces free text for a user query grounded on the policy
// context. Implementations may fail or time out; the service substitutes a
// fallback answer when they do.
type Generator interface {
	Generate(ctx context.Context, policyContext, userQuery string) (string, error)
}

// Result is what a submission hands back to the caller. Warning is non-empty
// when a collaborator failed in a recoverable way; the conversation and reply
// are always usable.
type Result struct {
	Conversation chat.Conversation `json:"conversation"`
	Reply        chat.Message      `json:"reply"`
	Warning      string            `json:"warning,omitempty"`
}

// Service orchestrates the question-answering pipeline: append the user turn,
// persist, generate, classify, append the assistant turn, persist again. It
// owns the in-memory conversation per user for the session; the store owns
// the durable copy and is the source of truth on reload.
type Service struct {
	store     conversation.Store
	generator Generator
	policy    policy.Context
	appID     string

	mu       sync.RWMutex
	sessions map[string]chat.Conversation

	now func() time.Time
}

// NewService wires the controller with its collaborators. generator may be
// nil when the model is unconfigured; every submission then receives the
// fallback answer at uncertain confidence.
func NewService(store conversation.Store, generator Generator, policyCtx policy.Context, appID string) *Service {
	return &Service{
		store:     store,
		generator: generator,
		policy:    policyCtx,
		appID:     appID,
		sessions:  make(map[string]chat.Conversation),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Conversation returns the current conversation for the user, loading it from
// the store on first access. A missing document is seeded with the greeting;
// a failing store degrades to a memory-only conversation plus a warning.
func (s *Service) Conversation(ctx context.Context, userID string) (chat.Conversation, string) {
	s.mu.RLock()
	cached, ok := s.sessions[userID]
	s.mu.RUnlock()
	if ok {
		return cached.Clone(), ""
	}

	var warning string
	conv, err := s.store.Load(ctx, s.appID, userID)
	switch {
	case err == nil:
		if conv.Len() == 0 {
			conv = s.seedGreeting(ctx, userID, greetingText)
		}
	case errors.Is(err, conversation.ErrNotFound):
		conv = s.seedGreeting(ctx, userID, greetingText)
	default:
		log.Printf("[chat] failed to load conversation for user=%s: %v", userID, err)
		conv = chat.Conversation{Messages: []chat.Message{s.newAssistantMessage(degradedGreetingText, chat.ConfidenceHigh)}}
		warning = loadWarning
	}

	s.cache(userID, conv)
	return conv.Clone(), warning
}

// Submit runs one question through the pipeline. The user turn is persisted
// before generation starts so a downstream failure never loses the question,
// and every user message is answered by exactly one assistant message even
// when generation fails.
func (s *Service) Submit(ctx context.Context, userID, userText string) (Result, error) {
	trimmed := strings.TrimSpace(userText)
	if trimmed == "" {
		return Result{}, ErrEmptyMessage
	}

	conv, warning := s.Conversation(ctx, userID)

	userMsg := chat.Message{
		ID:        uuid.NewString(),
		Sender:    chat.SenderUser,
		Text:      trimmed,
		Timestamp: s.now(),
	}
	conv = conv.Append(userMsg)
	s.cache(userID, conv)
	warning = combineWarnings(warning, s.persist(ctx, userID, conv))

	reply := s.answer(ctx, trimmed)
	conv = conv.Append(reply)
	s.cache(userID, conv)
	warning = combineWarnings(warning, s.persist(ctx, userID, conv))

	return Result{Conversation: conv, Reply: reply, Warning: warning}, nil
}

// answer generates and grades the assistant turn, substituting the fixed
// apology at uncertain confidence on any generation failure.
func (s *Service) answer(ctx context.Context, userText string) chat.Message {
	if s.generator == nil {
		return s.newAssistantMessage(fallbackAnswerText, chat.ConfidenceUncertain)
	}

	text, err := s.generator.Generate(ctx, s.policy.Text, userText)
	if err != nil {
		log.Printf("[chat] generation failed: %v", err)
		return s.newAssistantMessage(fallbackAnswerText, chat.ConfidenceUncertain)
	}

	tier, err := confidence.Classify(text)
	if err != nil {
		log.Printf("[chat] classification rejected generated text: %v", err)
		return s.newAssistantMessage(fallbackAnswerText, chat.ConfidenceUncertain)
	}

	return s.newAssistantMessage(text, tier)
}

func (s *Service) seedGreeting(ctx context.Context, userID, text string) chat.Conversation {
	conv := chat.Conversation{Messages: []chat.Message{s.newAssistantMessage(text, chat.ConfidenceHigh)}}
	if err := s.store.Save(ctx, s.appID, userID, conv); err != nil {
		log.Printf("[chat] failed to persist greeting for user=%s: %v", userID, err)
	}
	return conv
}

func (s *Service) newAssistantMessage(text string, tier chat.Confidence) chat.Message {
	return chat.Message{
		ID:         uuid.NewString(),
		Sender:     chat.SenderAssistant,
		Text:       text,
		Confidence: tier,
		Timestamp:  s.now(),
	}
}

// persist saves the conversation, converting failure into a user-facing
// warning. The in-memory conversation stays authoritative for the session
// when the durable copy lags.
func (s *Service) persist(ctx context.Context, userID string, conv chat.Conversation) string {
	if err := s.store.Save(ctx, s.appID, userID, conv); err != nil {
		log.Printf("[chat] failed to save conversation for user=%s: %v", userID, err)
		return saveWarning
	}
	return ""
}

func (s *Service) cache(userID string, conv chat.Conversation) {
	s.mu.Lock()
	s.sessions[userID] = conv.Clone()
	s.mu.Unlock()
}

func combineWarnings(existing, next string) string {
	switch {
	case next == "":
		return existing
	case existing == "", existing == next:
		return next
	default:
		return existing + " " + next
	}
}
