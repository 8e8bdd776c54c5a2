package auth

import (
	"context"
	"net/http"
)

type userIDKey struct{}

// Middleware lifts the authenticated user id (set upstream by the
// gateway) from the X-User-Id header into the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID := r.Header.Get("X-User-Id"); userID != "" {
			r = r.WithContext(WithUserID(r.Context(), userID))
		}
		next.ServeHTTP(w, r)
	})
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

func GetUserID(ctx context.Context) string {
	if val, ok := ctx.Value(userIDKey{}).(string); ok {
		return val
	}
	return ""
}
