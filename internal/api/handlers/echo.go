package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Harshitk-cp/helios/internal/service"
)

type EchoHandler struct {
	svc *service.EchoService
}

func NewEchoHandler(svc *service.EchoService) *EchoHandler {
	return &EchoHandler{svc: svc}
}

type echoRequest struct {
	SessionID     string `json:"session_id"`
	PlayerID      string `json:"player_id"`
	ConfusionText string `json:"confusion_text"`
}

func (h *EchoHandler) Echo(w http.ResponseWriter, r *http.Request) {
	var req echoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.ConfusionText) == "" {
		writeError(w, http.StatusBadRequest, "confusion_text is required")
		return
	}

	res, err := h.svc.Echo(r.Context(), req.SessionID, req.PlayerID, req.ConfusionText)
	if err != nil {
		if errors.Is(err, service.ErrSessionRequired) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "echo failed")
		return
	}

	WriteJSON(w, http.StatusOK, res)
}
