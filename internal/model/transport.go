package model

import (
	"context"
	"net"
)

// ContextManager carries the authenticated bearer token through request contexts.
type ContextManager interface {
	SetTokenToContext(ctx context.Context, token string) context.Context
	GetTokenFromContext(ctx context.Context) (string, bool)
}

// SecurityLayer opens the listener the HTTP API accepts connections on,
// plain TCP or TLS.
type SecurityLayer interface {
	Listen(protocol, addr string) (net.Listener, error)
}

// Server is the HTTP API process: Start blocks until Stop drains it.
type Server interface {
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}
