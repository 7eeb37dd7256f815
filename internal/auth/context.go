package auth

import "context"

type ctxKey int

const userIDKey ctxKey = 0

// WithUserID stores the authenticated user's id in the context. Set by the
// auth middleware after token verification.
func WithUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserIDFrom returns the authenticated user's id, or 0 when the request
// did not pass through the auth middleware.
func UserIDFrom(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey).(int64)
	return id
}
