package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	chatservice "github.com/policypal/backend/internal/service/chat"
	"github.com/policypal/backend/pkg/utils"
)

// Handler exposes the conversation pipeline over HTTP.
type Handler struct {
	chatSvc *chatservice.Service
}

// New creates the chat handler.
func New(chatSvc *chatservice.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// RegisterRoutes mounts the chat endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/chat/conversation", h.handleGetConversation)
	r.Post("/chat/messages", h.handleSubmitMessage)
}

// handleGetConversation returns the user's conversation, seeding the greeting
// for first-time users.
func (h *Handler) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		utils.RespondError(w, http.StatusBadRequest, "userId query parameter is required")
		return
	}

	conv, warning := h.chatSvc.Conversation(r.Context(), userID)

	payload := map[string]interface{}{
		"userId":   userID,
		"messages": conv.Messages,
	}
	if warning != "" {
		payload["warning"] = warning
	}
	utils.RespondJSON(w, http.StatusOK, payload)
}

// handleSubmitMessage runs one question through the pipeline and returns the
// assistant's reply. Persistence trouble is reported in the warning field,
// never as a failed request.
func (h *Handler) handleSubmitMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserID string `json:"userId"`
		Text   string `json:"text"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.UserID == "" {
		utils.RespondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	result, err := h.chatSvc.Submit(r.Context(), payload.UserID, payload.Text)
	if err != nil {
		if errors.Is(err, chatservice.ErrEmptyMessage) {
			utils.RespondError(w, http.StatusBadRequest, "text must not be empty")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, result)
}
