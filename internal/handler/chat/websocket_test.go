package chat

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	modelchat "github.com/policypal/backend/internal/model/chat"
	"github.com/policypal/backend/internal/model/policy"
	chatservice "github.com/policypal/backend/internal/service/chat"
	"github.com/policypal/backend/internal/store/conversation"
)

func dialTestSocket(t *testing.T, generatedText string) *websocket.Conn {
	t.Helper()

	store := conversation.NewMemoryStore()
	chatSvc := chatservice.NewService(store, stubGenerator{text: generatedText}, policy.Default(), "hr-policy-faq-mvp")
	wsHandler := NewWebSocketHandler(chatSvc)

	r := chi.NewRouter()
	wsHandler.RegisterWebSocketRoutes(r)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/chat/ws/user-1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial err: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWebSocketSendsConversationOnConnect(t *testing.T) {
	conn := dialTestSocket(t, "ok")

	var frame outboundFrame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read err: %v", err)
	}
	if frame.Type != "conversation" {
		t.Fatalf("expected conversation frame, got %s", frame.Type)
	}
	if len(frame.Messages) != 1 {
		t.Fatalf("expected seeded greeting, got %d messages", len(frame.Messages))
	}
}

func TestWebSocketAnswersMessageFrame(t *testing.T) {
	conn := dialTestSocket(t, "Business casual, with casual Fridays.")

	var greeting outboundFrame
	if err := conn.ReadJSON(&greeting); err != nil {
		t.Fatalf("read err: %v", err)
	}

	if err := conn.WriteJSON(inboundFrame{Type: "message", Text: "What is the dress code?"}); err != nil {
		t.Fatalf("write err: %v", err)
	}

	var reply outboundFrame
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read err: %v", err)
	}
	if reply.Type != "reply" || reply.Reply == nil {
		t.Fatalf("expected reply frame, got %+v", reply)
	}
	if reply.Reply.Sender != modelchat.SenderAssistant {
		t.Fatalf("reply sender = %s, want assistant", reply.Reply.Sender)
	}
	if reply.Reply.Confidence != modelchat.ConfidenceMedium {
		t.Fatalf("reply confidence = %s, want medium", reply.Reply.Confidence)
	}
}

func TestWebSocketRejectsUnknownFrameType(t *testing.T) {
	conn := dialTestSocket(t, "ok")

	var greeting outboundFrame
	if err := conn.ReadJSON(&greeting); err != nil {
		t.Fatalf("read err: %v", err)
	}

	if err := conn.WriteJSON(inboundFrame{Type: "bogus"}); err != nil {
		t.Fatalf("write err: %v", err)
	}

	var frame outboundFrame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read err: %v", err)
	}
	if frame.Type != "error" {
		t.Fatalf("expected error frame, got %s", frame.Type)
	}
}
