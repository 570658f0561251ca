package chat

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	modelchat "github.com/policypal/backend/internal/model/chat"
	chatservice "github.com/policypal/backend/internal/service/chat"
)

// WebSocketHandler serves a live chat connection: the full conversation on
// connect, then one reply frame per submitted question.
type WebSocketHandler struct {
	chatSvc  *chatservice.Service
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates the live chat handler.
func NewWebSocketHandler(chatSvc *chatservice.Service) *WebSocketHandler {
	return &WebSocketHandler{
		chatSvc: chatSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterWebSocketRoutes mounts the live chat endpoint.
func (h *WebSocketHandler) RegisterWebSocketRoutes(r chi.Router) {
	r.Get("/chat/ws/{userID}", h.handleWebSocket)
}

type inboundFrame struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type outboundFrame struct {
	Type     string              `json:"type"`
	Messages []modelchat.Message `json:"messages,omitempty"`
	Reply    *modelchat.Message  `json:"reply,omitempty"`
	Warning  string              `json:"warning,omitempty"`
	Error    string              `json:"error,omitempty"`
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		http.Error(w, "userID is required", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed for user=%s: %v", userID, err)
		return
	}
	defer conn.Close()

	log.Printf("[ws] connection opened for user=%s", userID)

	conv, warning := h.chatSvc.Conversation(r.Context(), userID)
	if err := conn.WriteJSON(outboundFrame{
		Type:     "conversation",
		Messages: conv.Messages,
		Warning:  warning,
	}); err != nil {
		log.Printf("[ws] failed to send conversation for user=%s: %v", userID, err)
		return
	}

	for {
		var frame inboundFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] read failed for user=%s: %v", userID, err)
			}
			return
		}

		switch frame.Type {
		case "message":
			h.handleSubmitFrame(r, conn, userID, frame.Text)
		case "ping":
			_ = conn.WriteJSON(outboundFrame{Type: "pong"})
		default:
			_ = conn.WriteJSON(outboundFrame{Type: "error", Error: "unknown frame type: " + frame.Type})
		}
	}
}

func (h *WebSocketHandler) handleSubmitFrame(r *http.Request, conn *websocket.Conn, userID, text string) {
	result, err := h.chatSvc.Submit(r.Context(), userID, text)
	if err != nil {
		msg := "submission failed"
		if errors.Is(err, chatservice.ErrEmptyMessage) {
			msg = "text must not be empty"
		}
		_ = conn.WriteJSON(outboundFrame{Type: "error", Error: msg})
		return
	}

	if err := conn.WriteJSON(outboundFrame{
		Type:    "reply",
		Reply:   &result.Reply,
		Warning: result.Warning,
	}); err != nil {
		log.Printf("[ws] failed to send reply for user=%s: %v", userID, err)
	}
}
