package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Harshitk-cp/helios/internal/api/middleware"
	"github.com/Harshitk-cp/helios/internal/domain"
	"github.com/Harshitk-cp/helios/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BeliefHandler struct {
	svc    *service.BeliefService
	logger *zap.Logger
}

func NewBeliefHandler(svc *service.BeliefService, logger *zap.Logger) *BeliefHandler {
	return &BeliefHandler{svc: svc, logger: logger}
}

// analyzeRequest omits behavior_logs to analyze the character's recorded conversations.
type analyzeRequest struct {
	CharacterID  string                `json:"character_id"`
	BehaviorLogs *[]domain.BehaviorLog `json:"behavior_logs,omitempty"`
}

func (h *BeliefHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if req.CharacterID == "" {
		req.CharacterID = r.URL.Query().Get("character_id")
	}
	if strings.TrimSpace(req.CharacterID) == "" {
		writeError(w, http.StatusBadRequest, "character_id is required")
		return
	}

	var (
		analysis *service.BeliefAnalysis
		err      error
	)
	if req.BehaviorLogs != nil {
		analysis, err = h.svc.Analyze(r.Context(), req.CharacterID, *req.BehaviorLogs)
	} else {
		analysis, err = h.svc.AnalyzeCharacter(r.Context(), req.CharacterID)
	}
	if err != nil {
		if errors.Is(err, service.ErrCharacterNotFound) {
			writeError(w, http.StatusNotFound, "character not found: "+req.CharacterID)
			return
		}
		middleware.RequestLogger(r.Context(), h.logger).Error("belief analysis failed", zap.String("character_id", req.CharacterID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "belief analysis failed")
		return
	}

	WriteJSON(w, http.StatusOK, analysis)
}

func (h *BeliefHandler) Get(w http.ResponseWriter, r *http.Request) {
	characterID := chi.URLParam(r, "characterID")

	doc, err := h.svc.Get(r.Context(), characterID)
	if err != nil {
		if errors.Is(err, service.ErrBeliefsNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		middleware.RequestLogger(r.Context(), h.logger).Error("failed to get beliefs", zap.String("character_id", characterID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to get beliefs")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"character_id": characterID,
		"beliefs":      doc,
		"belief_yaml":  doc.YAML(),
	})
}
