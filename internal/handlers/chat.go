package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/woomsg/woomsg/internal/middleware"
	"github.com/woomsg/woomsg/internal/service"
)

type ChatHandler struct {
	Service  *service.Service
	Validate *validator.Validate
}

type CreateChatRoomRequest struct {
	Title     string   `json:"title" validate:"required"`
	Usernames []string `json:"usernames"`
}

// CreateChatRoom creates a room with the named participants plus the
// requesting user. If any username is unknown, nothing is created and the
// bad username is reported.
func (h *ChatHandler) CreateChatRoom(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var req CreateChatRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	chatID, err := h.Service.CreateChatRoom(req.Title, req.Usernames, userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]int{"id": chatID})
}

func (h *ChatHandler) GetChats(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	rooms, err := h.Service.ChatRoomsForUser(userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rooms)
}

func (h *ChatHandler) GetRoomInfo(w http.ResponseWriter, r *http.Request) {
	chatID := pathInt(r, "id")

	info, err := h.Service.RoomInfo(chatID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}

func (h *ChatHandler) GetChatMessages(w http.ResponseWriter, r *http.Request) {
	chatID := pathInt(r, "id")

	messages, err := h.Service.MessagesInRoom(chatID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, messages)
}

func (h *ChatHandler) GetChatParticipants(w http.ResponseWriter, r *http.Request) {
	chatID := pathInt(r, "id")

	names, err := h.Service.ParticipantsInChat(chatID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, names)
}

type PostMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	chatID := pathInt(r, "id")

	var req PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	message, err := h.Service.PostMessage(req.Message, "", userID, chatID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, message)
}

type UpdateMessageRequest struct {
	Message string `json:"message" validate:"required"`
	UserID  int    `json:"user_id" validate:"required"`
}

func (h *ChatHandler) UpdateMessage(w http.ResponseWriter, r *http.Request) {
	messageID := pathInt(r, "id")

	var req UpdateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	message, err := h.Service.UpdateMessage(req.Message, req.UserID, messageID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, message)
}

type UpdateChatTitleRequest struct {
	Title string `json:"title" validate:"required"`
}

func (h *ChatHandler) UpdateChatTitle(w http.ResponseWriter, r *http.Request) {
	chatID := pathInt(r, "id")

	var req UpdateChatTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	chat, err := h.Service.UpdateChatTitle(chatID, req.Title)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, chat)
}

// RemoveParticipant removes the named user from a chat. The chat remains
// even when its last participant leaves.
func (h *ChatHandler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	chatID := pathInt(r, "id")
	username := mux.Vars(r)["username"]

	if err := h.Service.RemoveUserFromChat(username, chatID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(mux.Vars(r)[key])
	return n
}
