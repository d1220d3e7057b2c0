package utils

import "context"

// context key
type ctxKey string

const ctxIdentityKey ctxKey = "identity"

// Identity is the verified caller attached by the auth middleware.
type Identity struct {
	UserID string
	Email  string
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxIdentityKey, id)
}

// IdentityFromContext returns the caller identity; ok is false outside the
// authenticated route group.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxIdentityKey).(Identity)
	if !ok || id.UserID == "" {
		return Identity{}, false
	}
	return id, true
}
