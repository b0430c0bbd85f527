package model

import (
	"context"
	"net"

	"github.com/google/uuid"
)

// SecurityLayer opens the listener the HTTP server accepts connections on,
// either plain TCP or TLS.
type SecurityLayer interface {
	Listen(protocol, addr string) (net.Listener, error)
}

// Server is a long-running network server started by cmd.
type Server interface {
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}

// ContextManager carries the request ID through a request context.
type ContextManager interface {
	SetRequestIDToContext(ctx context.Context, requestID uuid.UUID) context.Context
	GetRequestIDFromContext(ctx context.Context) (uuid.UUID, bool)
}
