package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// SessionMiddleware resolves the cart session for the request. Identity
// is an external concern: a caller presents an X-Session-ID it was handed
// earlier, or gets a fresh one minted here. An optional X-User-ID rides
// along for attribution only.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get("X-Session-ID")
		if sessionID == "" {
			sessionID = uuid.NewString()
		}
		w.Header().Set("X-Session-ID", sessionID)

		ctx := context.WithValue(r.Context(), "session_id", sessionID)
		if userID := r.Header.Get("X-User-ID"); userID != "" {
			ctx = context.WithValue(ctx, "user_id", userID)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getSessionID(ctx context.Context) string {
	if sessionID, ok := ctx.Value("session_id").(string); ok {
		return sessionID
	}
	return ""
}

func getUserID(ctx context.Context) string {
	if userID, ok := ctx.Value("user_id").(string); ok {
		return userID
	}
	return ""
}
