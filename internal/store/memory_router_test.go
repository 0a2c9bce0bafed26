package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Harshitk-cp/helios/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeMemoryServer emulates the remote memory API and can be switched into a failing state.
type fakeMemoryServer struct {
	mu       sync.Mutex
	sessions map[string][]remoteMessage
	failing  atomic.Bool
	apiKey   string
}

func newFakeMemoryServer(t *testing.T) (*fakeMemoryServer, *httptest.Server) {
	f := &fakeMemoryServer{sessions: make(map[string][]remoteMessage), apiKey: "secret"}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeMemoryServer) count(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions[id])
}

func (f *fakeMemoryServer) serve(w http.ResponseWriter, r *http.Request) {
	if f.failing.Load() {
		w.WriteHeader(http.StatusBadGateway)
		return
	}
	if r.Header.Get("Authorization") != "Bearer "+f.apiKey {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	// /sessions/{id}/memory
	id := r.URL.Path[len("/sessions/") : len(r.URL.Path)-len("/memory")]

	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		msgs, ok := f.sessions[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(remoteMemoryResponse{Messages: msgs})
	case http.MethodPost:
		var req remoteMemoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.sessions[id] = append(f.sessions[id], req.Messages...)
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(f.sessions, id)
		w.WriteHeader(http.StatusOK)
	}
}

func TestRemoteMemory_RoundTrip(t *testing.T) {
	ctx := context.Background()
	_, srv := newFakeMemoryServer(t)
	remote := NewRemoteMemory(srv.URL, "secret", time.Second)

	e := domain.NewMemoryEntry("Marcus", "Welcome, traveler.", domain.RoleAssistant)
	e.Emotion = "friendly"
	e.Action = "polishes a glass"
	require.NoError(t, remote.PutMemory(ctx, "s1", e))
	require.NoError(t, remote.PutMemory(ctx, "s1", domain.NewMemoryEntry(domain.PlayerSpeaker, "Thanks", domain.RoleUser)))

	got, err := remote.GetMemory(ctx, "s1", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Marcus", got[0].Speaker)
	assert.Equal(t, domain.RoleAssistant, got[0].Role)
	assert.Equal(t, "friendly", got[0].Emotion)
	assert.Equal(t, "polishes a glass", got[0].Action)
	assert.Equal(t, domain.PlayerSpeaker, got[1].Speaker)
	assert.Equal(t, domain.DefaultEmotion, got[1].Emotion)

	require.NoError(t, remote.DeleteMemory(ctx, "s1"))
	require.NoError(t, remote.DeleteMemory(ctx, "s1"))
}

func TestRemoteMemory_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("bad credential", func(t *testing.T) {
		_, srv := newFakeMemoryServer(t)
		remote := NewRemoteMemory(srv.URL, "wrong", time.Second)
		assert.Error(t, remote.PutMemory(ctx, "s1", entry(0)))
	})

	t.Run("malformed payload", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"unexpected": true}`))
		}))
		defer srv.Close()

		remote := NewRemoteMemory(srv.URL, "", time.Second)
		_, err := remote.GetMemory(ctx, "s1", 5)
		assert.Error(t, err)
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		remote := NewRemoteMemory(srv.URL, "", 20*time.Millisecond)
		_, err := remote.GetMemory(ctx, "s1", 5)
		assert.Error(t, err)
	})
}

func TestMemoryRouter_LocalOnly(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRouter(NewLocalMemory(), nil, zap.NewNop())

	assert.False(t, r.Remote())
	require.NoError(t, r.Record(ctx, "s1", entry(1)))

	got, err := r.Fetch(ctx, "s1", 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestMemoryRouter_PrefersRemote(t *testing.T) {
	ctx := context.Background()
	fake, srv := newFakeMemoryServer(t)
	local := NewLocalMemory()
	r := NewMemoryRouter(local, NewRemoteMemory(srv.URL, "secret", time.Second), zap.NewNop())

	require.NoError(t, r.Record(ctx, "s1", entry(1)))

	_, localCount := local.Stats()
	assert.Equal(t, 0, localCount)
	assert.Equal(t, 1, fake.count("s1"))

	got, err := r.Fetch(ctx, "s1", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "message 1", got[0].Message)
}

func TestMemoryRouter_FallbackIsPerCall(t *testing.T) {
	ctx := context.Background()
	fake, srv := newFakeMemoryServer(t)
	local := NewLocalMemory()
	r := NewMemoryRouter(local, NewRemoteMemory(srv.URL, "secret", time.Second), zap.NewNop())

	fake.failing.Store(true)
	require.NoError(t, r.Record(ctx, "s1", entry(1)))

	got, err := r.Fetch(ctx, "s1", 10)
	require.NoError(t, err)
	require.Len(t, got, 1, "failed remote read should fall back to local memory")

	fake.failing.Store(false)
	require.NoError(t, r.Record(ctx, "s1", entry(2)))
	assert.Equal(t, 1, fake.count("s1"), "remote should be used again once healthy")

	got, err = r.Fetch(ctx, "s1", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "message 2", got[0].Message)
}

func TestMemoryRouter_ClearNeverFails(t *testing.T) {
	ctx := context.Background()
	fake, srv := newFakeMemoryServer(t)
	local := NewLocalMemory()
	r := NewMemoryRouter(local, NewRemoteMemory(srv.URL, "secret", time.Second), zap.NewNop())

	require.NoError(t, local.Record(ctx, "s1", entry(1)))
	fake.failing.Store(true)

	require.NoError(t, r.Clear(ctx, "s1"))

	got, err := local.Fetch(ctx, "s1", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}
