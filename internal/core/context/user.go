// Package appctx carries request-scoped values (actor, trace) through
// context.Context.
package appctx

import (
	"context"
)

// UserContext holds the authenticated actor for the current request.
// It is attached by the auth middleware and trusted by the domain layer for
// audit attribution; core never re-validates it.
type UserContext struct {
	UserID   string
	Username string
}

type userKey struct{}

// WithUser attaches user info to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// GetUser returns user info from context, or nil.
func GetUser(ctx context.Context) *UserContext {
	if u, ok := ctx.Value(userKey{}).(*UserContext); ok {
		return u
	}
	return nil
}

// GetUserID returns the actor ID from context, or "" when unauthenticated.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}
