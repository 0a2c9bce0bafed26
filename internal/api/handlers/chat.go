package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Harshitk-cp/helios/internal/api/middleware"
	"github.com/Harshitk-cp/helios/internal/domain"
	"github.com/Harshitk-cp/helios/internal/service"
	"go.uber.org/zap"
)

type ChatHandler struct {
	svc    *service.DialogueService
	logger *zap.Logger
}

func NewChatHandler(svc *service.DialogueService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{svc: svc, logger: logger}
}

type chatRequest struct {
	SessionID    string               `json:"session_id"`
	NPCID        string               `json:"npc_id"`
	UserMessage  string               `json:"user_message"`
	SceneContext *domain.SceneContext `json:"scene_context,omitempty"`
}

type chatResponse struct {
	Message       string         `json:"message"`
	Emotion       string         `json:"emotion"`
	Action        string         `json:"action,omitempty"`
	CharacterName string         `json:"character_name"`
	Timestamp     time.Time      `json:"timestamp"`
	Outcome       domain.Outcome `json:"outcome"`
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.NPCID) == "" {
		writeError(w, http.StatusBadRequest, "npc_id is required")
		return
	}

	res, err := h.svc.Converse(r.Context(), service.ConverseInput{
		CharacterID: req.NPCID,
		SessionID:   req.SessionID,
		Message:     req.UserMessage,
		Scene:       req.SceneContext,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCharacterNotFound):
			writeError(w, http.StatusNotFound, "character not found: "+req.NPCID)
		case errors.Is(err, service.ErrSessionRequired):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			middleware.RequestLogger(r.Context(), h.logger).Error("chat failed", zap.String("npc_id", req.NPCID), zap.Error(err))
			WriteJSON(w, http.StatusOK, chatResponse{
				Message:       "Sorry, I'm a little distracted right now...",
				Emotion:       "confused",
				CharacterName: "Unknown",
				Timestamp:     time.Now().UTC(),
				Outcome:       domain.Failed(domain.ReasonProviderFailure),
			})
		}
		return
	}

	WriteJSON(w, http.StatusOK, chatResponse{
		Message:       res.Reply.Message,
		Emotion:       res.Reply.Emotion,
		Action:        res.Reply.Action,
		CharacterName: res.CharacterName,
		Timestamp:     res.Timestamp,
		Outcome:       res.Outcome,
	})
}

func (h *ChatHandler) Characters(w http.ResponseWriter, r *http.Request) {
	chars, err := h.svc.Characters(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list characters")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"characters": chars,
		"total":      len(chars),
	})
}

func (h *ChatHandler) Status(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.svc.Status())
}
