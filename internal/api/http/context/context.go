package context

import (
	"context"

	"github.com/dtroode/codemap-billing/internal/model"
)

type principalKey struct{}

// Manager stores the authenticated principal on request contexts.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetPrincipalToContext returns a copy of ctx carrying principal.
func (m *Manager) SetPrincipalToContext(ctx context.Context, principal model.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// GetPrincipalFromContext returns the principal set by SetPrincipalToContext.
// A zero principal is reported as missing.
func (m *Manager) GetPrincipalFromContext(ctx context.Context) (model.Principal, bool) {
	principal, ok := ctx.Value(principalKey{}).(model.Principal)
	if !ok || principal.IsZero() {
		return model.Principal{}, false
	}
	return principal, true
}
