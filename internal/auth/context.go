package auth

import "context"

type ctxKey int

const userIDKey ctxKey = 0

// WithUserID returns a context carrying the authenticated user's id. The
// session guard injects it; handlers read it back with UserID. Identity
// always travels through the request context, never package state.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID returns the authenticated user's id, or "" when the request is
// anonymous.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
