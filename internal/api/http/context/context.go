package context

import (
	"context"

	"github.com/google/uuid"
)

type requestIDKey struct{}

// Manager stores and reads per-request values in a request context.
type Manager struct{}

// NewManager creates a new context Manager.
func NewManager() *Manager {
	return &Manager{}
}

// SetRequestIDToContext returns a copy of ctx carrying requestID.
func (m *Manager) SetRequestIDToContext(ctx context.Context, requestID uuid.UUID) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// GetRequestIDFromContext returns the request ID stored in ctx.
func (m *Manager) GetRequestIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	requestID, ok := ctx.Value(requestIDKey{}).(uuid.UUID)
	if !ok || requestID == uuid.Nil {
		return uuid.Nil, false
	}
	return requestID, true
}
