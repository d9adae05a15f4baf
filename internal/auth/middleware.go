package auth

import (
	"context"
	"net/http"
)

// contextKey is an unexported type used for context keys in this package.
//
// context.WithValue takes any as the key type. With a plain string key like
// "userID", any package that knows the string can read or shadow the value.
// A package-private type prevents that: only this package can create a
// contextKey, so only this package can set or read the userID.
type contextKey string

const userIDKey contextKey = "userID"

// SessionCookieName is the name of the HttpOnly cookie carrying the JWT.
const SessionCookieName = "token"

// unauthorizedBody matches the fail envelope the handlers produce, so a
// rejected request looks the same whether the middleware or a handler
// turned it away.
const unauthorizedBody = `{"status":"fail","data":{"title":"User not logged in"}}`

// RequireAuth is a middleware that enforces authentication on protected
// routes.
//
// It reads the JWT from the session cookie, validates it, and stores the
// userID in the request context. If the token is missing or invalid it
// responds 401 and stops the chain — the wrapped handler never runs, so no
// write can happen on an unauthenticated request.
//
// The JWT lives in an HttpOnly cookie rather than localStorage or a header:
// HttpOnly means JavaScript cannot read it, so an XSS payload cannot steal
// the session.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(unauthorizedBody))
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth extracts the user identity if a valid token is present but
// does NOT block the request when it's missing or invalid.
//
// Installed router-wide: public reads keep working without a session, while
// the resolved identity is available to the request logger and to handlers
// via UserIDFromContext — ("", false) means the request is anonymous.
// Protected routes layer RequireAuth on top.
func OptionalAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, err := extractUserID(r, tokens); err == nil && userID != "" {
				ctx := context.WithValue(r.Context(), userIDKey, userID)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext retrieves the authenticated user's ID from the request
// context. Returns ("", false) if the request is anonymous.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// extractUserID reads the session cookie and validates the JWT inside it.
func extractUserID(r *http.Request, tokens *TokenService) (string, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		// http.ErrNoCookie — no session, the request is anonymous
		return "", err
	}

	return tokens.Validate(cookie.Value)
}
