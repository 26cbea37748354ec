package middleware

import "context"

type contextKey string

const (
	ctxUserID       contextKey = "user_id"
	ctxEmail        contextKey = "email"
	ctxViaSubdomain contextKey = "via_subdomain"
)

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

// EmailFromContext returns the email claim, which may be empty.
func EmailFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxEmail).(string); ok {
		return v
	}
	return ""
}

// ViaSubdomain reports whether HostRewrite resolved the slug from the host.
func ViaSubdomain(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	v, _ := ctx.Value(ctxViaSubdomain).(bool)
	return v
}

// WithIdentity injects the caller identity into the context.
func WithIdentity(ctx context.Context, userID, email string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUserID, userID)
	return context.WithValue(ctx, ctxEmail, email)
}
