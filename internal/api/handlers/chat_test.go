package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Harshitk-cp/helios/internal/domain"
	"github.com/Harshitk-cp/helios/internal/llm"
	"github.com/Harshitk-cp/helios/internal/service"
	"github.com/Harshitk-cp/helios/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingCharacters struct {
	err error
}

func (f failingCharacters) Get(context.Context, string) (*domain.Character, error) {
	return nil, f.err
}

func (f failingCharacters) List(context.Context) ([]domain.Character, error) {
	return nil, f.err
}

func newChatHandler(characters domain.CharacterStore) *ChatHandler {
	logger := zap.NewNop()
	client := llm.NewClient(nil, llm.ClientConfig{Simulate: true}, logger)
	svc := service.NewDialogueService(store.NewLocalMemory(), store.NewBeliefMemStore(), characters, client, logger)
	return NewChatHandler(svc, logger)
}

func TestChat_InternalErrorIsNotExposed(t *testing.T) {
	h := newChatHandler(failingCharacters{err: errors.New("db down at 10.0.0.7")})

	body := `{"session_id":"s1","npc_id":"harbor_master","user_message":"hello"}`
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Chat(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db down")
	assert.NotContains(t, rec.Body.String(), "10.0.0.7")

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.NotContains(t, out, "error")
	assert.Equal(t, "confused", out["emotion"])
	outcome, ok := out["outcome"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, string(domain.OutcomeFailed), outcome["status"])
}

func TestChat_UnknownCharacter(t *testing.T) {
	h := newChatHandler(failingCharacters{err: store.ErrNotFound})

	body := `{"session_id":"s1","npc_id":"ghost","user_message":"hello"}`
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Chat(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "character not found: ghost")
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusAccepted, map[string]string{"status": "queued"})

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"queued"}`, rec.Body.String())
}
