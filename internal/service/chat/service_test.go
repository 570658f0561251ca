package chat_test

import (
	"context"
	"errors"
	"testing"

	modelchat "github.com/policypal/backend/internal/model/chat"
	"github.com/policypal/backend/internal/model/policy"
	chatservice "github.com/policypal/backend/internal/service/chat"
	"github.com/policypal/backend/internal/store/conversation"
)

type stubGenerator struct {
	text string
	err  error
}

func (g stubGenerator) Generate(_ context.Context, _, _ string) (string, error) {
	return g.text, g.err
}

type failingStore struct {
	loadErr error
	saveErr error
	inner   *conversation.MemoryStore
}

func (s *failingStore) Load(ctx context.Context, appID, userID string) (modelchat.Conversation, error) {
	if s.loadErr != nil {
		return modelchat.Conversation{}, s.loadErr
	}
	return s.inner.Load(ctx, appID, userID)
}

func (s *failingStore) Save(ctx context.Context, appID, userID string, conv modelchat.Conversation) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	return s.inner.Save(ctx, appID, userID, conv)
}

func newService(gen chatservice.Generator) (*chatservice.Service, *conversation.MemoryStore) {
	store := conversation.NewMemoryStore()
	return chatservice.NewService(store, gen, policy.Default(), "hr-policy-faq-mvp"), store
}

func TestConversationSeedsGreetingForNewUser(t *testing.T) {
	svc, _ := newService(stubGenerator{text: "ok"})

	conv, warning := svc.Conversation(context.Background(), "user-1")
	if warning != "" {
		t.Fatalf("unexpected warning: %q", warning)
	}
	if conv.Len() != 1 {
		t.Fatalf("expected exactly one greeting message, got %d", conv.Len())
	}
	greeting := conv.Messages[0]
	if greeting.Sender != modelchat.SenderAssistant {
		t.Fatalf("greeting sender = %s, want assistant", greeting.Sender)
	}
	if greeting.Confidence != modelchat.ConfidenceHigh {
		t.Fatalf("greeting confidence = %s, want high", greeting.Confidence)
	}
}

func TestSubmitAppendsUserAndAssistantTurns(t *testing.T) {
	svc, _ := newService(stubGenerator{text: "You are eligible for 20 paid vacation days per year."})
	ctx := context.Background()

	before, _ := svc.Conversation(ctx, "user-1")
	result, err := svc.Submit(ctx, "user-1", "How many vacation days do I get?")
	if err != nil {
		t.Fatalf("Submit err: %v", err)
	}

	if result.Conversation.Len() != before.Len()+2 {
		t.Fatalf("expected %d messages, got %d", before.Len()+2, result.Conversation.Len())
	}
	last := result.Conversation.Messages[result.Conversation.Len()-1]
	if last.Sender != modelchat.SenderAssistant {
		t.Fatalf("last sender = %s, want assistant", last.Sender)
	}
	if last.Confidence != modelchat.ConfidenceMedium {
		t.Fatalf("confidence = %s, want medium", last.Confidence)
	}
	if result.Warning != "" {
		t.Fatalf("unexpected warning: %q", result.Warning)
	}
}

func TestSubmitClassifiesUncertainAnswer(t *testing.T) {
	svc, _ := newService(stubGenerator{
		text: "I cannot find information about this in the provided policies. Please contact HR.",
	})

	result, err := svc.Submit(context.Background(), "user-1", "Can I expense my home renovation?")
	if err != nil {
		t.Fatalf("Submit err: %v", err)
	}
	if result.Reply.Confidence != modelchat.ConfidenceUncertain {
		t.Fatalf("confidence = %s, want uncertain", result.Reply.Confidence)
	}
}

func TestSubmitSubstitutesFallbackOnGeneratorError(t *testing.T) {
	svc, _ := newService(stubGenerator{err: errors.New("model timeout")})
	ctx := context.Background()

	before, _ := svc.Conversation(ctx, "user-1")
	result, err := svc.Submit(ctx, "user-1", "What is the dress code?")
	if err != nil {
		t.Fatalf("Submit err: %v", err)
	}

	if result.Conversation.Len() != before.Len()+2 {
		t.Fatalf("expected %d messages, got %d", before.Len()+2, result.Conversation.Len())
	}
	if result.Reply.Sender != modelchat.SenderAssistant {
		t.Fatalf("reply sender = %s, want assistant", result.Reply.Sender)
	}
	if result.Reply.Confidence != modelchat.ConfidenceUncertain {
		t.Fatalf("fallback confidence = %s, want uncertain", result.Reply.Confidence)
	}
}

func TestSubmitSubstitutesFallbackOnEmptyGeneratorOutput(t *testing.T) {
	svc, _ := newService(stubGenerator{text: "   "})

	result, err := svc.Submit(context.Background(), "user-1", "What is the dress code?")
	if err != nil {
		t.Fatalf("Submit err: %v", err)
	}
	if result.Reply.Confidence != modelchat.ConfidenceUncertain {
		t.Fatalf("fallback confidence = %s, want uncertain", result.Reply.Confidence)
	}
}

func TestSubmitWithoutGeneratorStillAnswers(t *testing.T) {
	svc, _ := newService(nil)

	result, err := svc.Submit(context.Background(), "user-1", "Am I eligible for WFH?")
	if err != nil {
		t.Fatalf("Submit err: %v", err)
	}
	if result.Reply.Confidence != modelchat.ConfidenceUncertain {
		t.Fatalf("confidence = %s, want uncertain", result.Reply.Confidence)
	}
}

func TestSubmitRejectsEmptyInput(t *testing.T) {
	svc, _ := newService(stubGenerator{text: "ok"})

	if _, err := svc.Submit(context.Background(), "user-1", "   "); !errors.Is(err, chatservice.ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestSubmitPersistsFinalConversation(t *testing.T) {
	svc, store := newService(stubGenerator{text: "Business casual, with casual Fridays."})
	ctx := context.Background()

	result, err := svc.Submit(ctx, "user-1", "What is the dress code?")
	if err != nil {
		t.Fatalf("Submit err: %v", err)
	}

	stored, err := store.Load(ctx, "hr-policy-faq-mvp", "user-1")
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if stored.Len() != result.Conversation.Len() {
		t.Fatalf("stored %d messages, session has %d", stored.Len(), result.Conversation.Len())
	}
}

func TestSubmitSurvivesSaveFailure(t *testing.T) {
	store := &failingStore{saveErr: errors.New("permission denied"), inner: conversation.NewMemoryStore()}
	svc := chatservice.NewService(store, stubGenerator{text: "Ten paid sick days per year."}, policy.Default(), "app")

	result, err := svc.Submit(context.Background(), "user-1", "How many sick days do I get?")
	if err != nil {
		t.Fatalf("Submit err: %v", err)
	}
	if result.Warning == "" {
		t.Fatal("expected a persistence warning")
	}
	if result.Reply.Text != "Ten paid sick days per year." {
		t.Fatalf("unexpected reply: %q", result.Reply.Text)
	}
}

func TestConversationDegradesOnLoadFailure(t *testing.T) {
	store := &failingStore{loadErr: errors.New("store offline"), inner: conversation.NewMemoryStore()}
	svc := chatservice.NewService(store, stubGenerator{text: "ok"}, policy.Default(), "app")

	conv, warning := svc.Conversation(context.Background(), "user-1")
	if warning == "" {
		t.Fatal("expected a load warning")
	}
	if conv.Len() != 1 || conv.Messages[0].Sender != modelchat.SenderAssistant {
		t.Fatalf("expected a single seeded assistant greeting, got %+v", conv.Messages)
	}
}

func TestConversationResumesFromStore(t *testing.T) {
	store := conversation.NewMemoryStore()
	ctx := context.Background()

	first := chatservice.NewService(store, stubGenerator{text: "Annual reviews for all employees."}, policy.Default(), "app")
	if _, err := first.Submit(ctx, "user-1", "How often are performance reviews?"); err != nil {
		t.Fatalf("Submit err: %v", err)
	}

	// A fresh service for the same store picks up the durable history.
	second := chatservice.NewService(store, stubGenerator{text: "ok"}, policy.Default(), "app")
	conv, warning := second.Conversation(ctx, "user-1")
	if warning != "" {
		t.Fatalf("unexpected warning: %q", warning)
	}
	if conv.Len() != 3 {
		t.Fatalf("expected greeting + 2 turns, got %d messages", conv.Len())
	}
}
