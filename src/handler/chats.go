package handler

import (
	"context"
	"net/http"
	"time"

	errors "ganak-service/src/error"
	"ganak-service/src/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChatStore interface {
	Create(ctx context.Context, chat *models.Chat) error
	List(ctx context.Context, userID primitive.ObjectID) ([]models.Chat, error)
	Get(ctx context.Context, userID, chatID primitive.ObjectID) (*models.Chat, error)
	AppendMessage(ctx context.Context, userID, chatID primitive.ObjectID, msg models.ChatMessage) (*models.Chat, error)
	Delete(ctx context.Context, userID, chatID primitive.ObjectID) error
}

type ChatHandler struct {
	*Handler
	Chats ChatStore
}

func NewChatHandler(h *Handler, chats ChatStore) *ChatHandler {
	return &ChatHandler{Handler: h, Chats: chats}
}

func (h *ChatHandler) CreateChatHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}

	var req models.CreateChatRequest
	if !h.decode(w, r, &req) {
		return
	}

	chat := &models.Chat{UserID: userID, Title: req.Title, Messages: []models.ChatMessage{}}
	if err := h.Chats.Create(r.Context(), chat); err != nil {
		h.storeError(w, err, errors.ErrChatNotFound, "Failed to create chat")
		return
	}
	h.writeJSON(w, http.StatusCreated, chat)
}

func (h *ChatHandler) ListChatsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}

	chats, err := h.Chats.List(r.Context(), userID)
	if err != nil {
		h.storeError(w, err, errors.ErrChatNotFound, "Failed to list chats")
		return
	}
	h.writeJSON(w, http.StatusOK, chats)
}

func (h *ChatHandler) GetChatHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}
	chatID, ok := h.pathID(w, r, "chatID")
	if !ok {
		return
	}

	chat, err := h.Chats.Get(r.Context(), userID, chatID)
	if err != nil {
		h.storeError(w, err, errors.ErrChatNotFound, "Failed to fetch chat")
		return
	}
	h.writeJSON(w, http.StatusOK, chat)
}

// PostMessageHandler appends a message to the history. Messages without a
// role are recorded as coming from the user.
func (h *ChatHandler) PostMessageHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}
	chatID, ok := h.pathID(w, r, "chatID")
	if !ok {
		return
	}

	var req models.PostMessageRequest
	if !h.decode(w, r, &req) {
		return
	}
	role := req.Role
	if role == "" {
		role = "user"
	}

	msg := models.ChatMessage{Role: role, Content: req.Content, CreatedAt: time.Now().UTC()}
	chat, err := h.Chats.AppendMessage(r.Context(), userID, chatID, msg)
	if err != nil {
		h.storeError(w, err, errors.ErrChatNotFound, "Failed to append message")
		return
	}
	h.writeJSON(w, http.StatusCreated, chat)
}

func (h *ChatHandler) DeleteChatHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}
	chatID, ok := h.pathID(w, r, "chatID")
	if !ok {
		return
	}

	if err := h.Chats.Delete(r.Context(), userID, chatID); err != nil {
		h.storeError(w, err, errors.ErrChatNotFound, "Failed to delete chat")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
