package store

import (
	"context"

	"github.com/Harshitk-cp/helios/internal/domain"
	"go.uber.org/zap"
)

// MemoryRouter is the session memory store used by the services. When a remote provider is
// configured it is tried first on every call; any remote failure falls back to the local
// backend for that call only.
type MemoryRouter struct {
	local  *LocalMemory
	remote domain.RemoteMemoryProvider
	logger *zap.Logger
}

// NewMemoryRouter creates a router. remote may be nil for local-only operation.
func NewMemoryRouter(local *LocalMemory, remote domain.RemoteMemoryProvider, logger *zap.Logger) *MemoryRouter {
	return &MemoryRouter{
		local:  local,
		remote: remote,
		logger: logger,
	}
}

// Remote reports whether a remote backend is configured.
func (r *MemoryRouter) Remote() bool {
	return r.remote != nil
}

// Local exposes the local backend for status reporting.
func (r *MemoryRouter) Local() *LocalMemory {
	return r.local
}

// Stats reports the local backend's session and entry counts.
func (r *MemoryRouter) Stats() (sessions int, entries int) {
	return r.local.Stats()
}

func (r *MemoryRouter) Record(ctx context.Context, sessionID string, entry domain.MemoryEntry) error {
	if r.remote != nil {
		err := r.remote.PutMemory(ctx, sessionID, entry)
		if err == nil {
			return nil
		}
		r.logger.Warn("remote memory write failed, using local memory",
			zap.String("session_id", sessionID), zap.Error(err))
	}
	return r.local.Record(ctx, sessionID, entry)
}

func (r *MemoryRouter) Fetch(ctx context.Context, sessionID string, limit int) ([]domain.MemoryEntry, error) {
	if r.remote != nil {
		entries, err := r.remote.GetMemory(ctx, sessionID, limit)
		if err == nil {
			return entries, nil
		}
		r.logger.Warn("remote memory read failed, using local memory",
			zap.String("session_id", sessionID), zap.Error(err))
	}
	return r.local.Fetch(ctx, sessionID, limit)
}

// Clear clears both backends; a remote failure is logged and ignored.
func (r *MemoryRouter) Clear(ctx context.Context, sessionID string) error {
	if r.remote != nil {
		if err := r.remote.DeleteMemory(ctx, sessionID); err != nil {
			r.logger.Warn("remote memory clear failed",
				zap.String("session_id", sessionID), zap.Error(err))
		}
	}
	return r.local.Clear(ctx, sessionID)
}
