package identity

import (
	"context"

	"github.com/angelmondragon/cellar-backend/pkg/enums"
)

// User is the acting identity supplied by the session layer.
type User struct {
	ID       string
	Username string
	Role     enums.Role
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == enums.RoleAdmin
}

// Provider resolves the current acting user, if any.
type Provider interface {
	CurrentUser(ctx context.Context) (*User, bool)
}

type ctxKey struct{}

// WithUser attaches the acting user to ctx.
func WithUser(ctx context.Context, user *User) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey{}, user)
}

// ContextProvider reads the user stored by WithUser.
type ContextProvider struct{}

func (ContextProvider) CurrentUser(ctx context.Context) (*User, bool) {
	if ctx == nil {
		return nil, false
	}
	user, ok := ctx.Value(ctxKey{}).(*User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

// StaticProvider always returns the same user; a nil User means signed out.
type StaticProvider struct {
	User *User
}

func (p StaticProvider) CurrentUser(context.Context) (*User, bool) {
	if p.User == nil {
		return nil, false
	}
	return p.User, true
}
