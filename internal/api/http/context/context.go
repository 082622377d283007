package context

import (
	"context"

	"github.com/dtroode/storefront-server/internal/model"
)

// userKey is the context key of the authenticated user.
type userKey struct{}

// Manager stores the authenticated user in request contexts.
type Manager struct{}

var _ model.ContextManager = (*Manager)(nil)

func NewManager() *Manager {
	return &Manager{}
}

// SetUserToContext returns a copy of ctx carrying user.
func (m *Manager) SetUserToContext(ctx context.Context, user model.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// GetUserFromContext returns the user attached by SetUserToContext.
func (m *Manager) GetUserFromContext(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(userKey{}).(model.User)
	return user, ok
}
