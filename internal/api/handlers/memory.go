package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Harshitk-cp/helios/internal/api/middleware"
	"github.com/Harshitk-cp/helios/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const defaultMemoryLimit = 20

type MemoryHandler struct {
	svc    *service.DialogueService
	logger *zap.Logger
}

func NewMemoryHandler(svc *service.DialogueService, logger *zap.Logger) *MemoryHandler {
	return &MemoryHandler{svc: svc, logger: logger}
}

func (h *MemoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	limit := defaultMemoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	entries, err := h.svc.History(r.Context(), sessionID, limit)
	if err != nil {
		if errors.Is(err, service.ErrSessionRequired) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		middleware.RequestLogger(r.Context(), h.logger).Error("failed to fetch memory", zap.String("session_id", sessionID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch memory")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"session_id": sessionID,
		"memory":     entries,
		"count":      len(entries),
	})
}

func (h *MemoryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := h.svc.ClearSession(r.Context(), sessionID); err != nil {
		if errors.Is(err, service.ErrSessionRequired) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		middleware.RequestLogger(r.Context(), h.logger).Error("failed to clear memory", zap.String("session_id", sessionID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to clear memory")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"session_id": sessionID,
		"cleared":    true,
	})
}
