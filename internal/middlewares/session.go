package middlewares

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/pvolkov2019/user-portal/internal/logger"
)

// SessionCookieName is the cookie that carries the signed session id.
const SessionCookieName = "session_id"

type sessionIDKey struct{}

// SessionIDFromContext returns the session id set by SessionMiddleware,
// or an empty string when the middleware did not run.
func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey{}).(string)
	return id
}

// WithSessionID stores a session id in the context.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, id)
}

func signSessionID(id, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(id))
	return hex.EncodeToString(mac.Sum(nil))
}

// verifySessionCookie splits and checks a cookie value of the form
// "<id>.<signature>". It returns the id and whether the signature is
// valid for it.
func verifySessionCookie(value, secret string) (string, bool) {
	id, sig, ok := strings.Cut(value, ".")
	if !ok || id == "" {
		return "", false
	}
	expected := signSessionID(id, secret)
	return id, hmac.Equal([]byte(sig), []byte(expected))
}

// SessionMiddleware returns a middleware that attaches an opaque,
// HMAC-signed session id to every request. A missing or tampered cookie
// is replaced by a freshly minted one, so the old flash queue (if any)
// becomes unreachable.
func SessionMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sessionID string

			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				if id, ok := verifySessionCookie(cookie.Value, secret); ok {
					sessionID = id
				} else {
					logger.Log.Infow("session cookie rejected", "request_id", RequestIDFromContext(r.Context()))
				}
			}

			if sessionID == "" {
				sessionID = uuid.New().String()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookieName,
					Value:    sessionID + "." + signSessionID(sessionID, secret),
					Path:     "/",
					HttpOnly: true,
				})
			}

			next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), sessionID)))
		})
	}
}
