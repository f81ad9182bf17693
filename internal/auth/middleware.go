package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sakif/training-journal/internal/apperror"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. If you use a plain string like
// context.WithValue(ctx, "userID", id), ANY package that knows the string "userID"
// can read or shadow your value. Using a package-private type prevents collisions:
// only THIS package can create a key of type contextKey, so only this package
// can read or write userID values in the context.
type contextKey string

const userIDKey contextKey = "userID"

const bearerPrefix = "Bearer "

// RequireAuth is a middleware that enforces authentication on protected routes.
//
// It reads the token from the Authorization header, validates it, and stores
// the user ID in the request context. On any failure it answers 401 with a
// JSON error body and the handler never runs:
//
//	no header / not "Bearer <token>"  → NO_TOKEN
//	expired                           → TOKEN_EXPIRED
//	anything else                     → INVALID_TOKEN
//
// MIDDLEWARE PATTERN IN GO:
// A middleware is a function that takes an http.Handler and returns a new
// http.Handler. The new handler "wraps" the original. Chi applies middlewares
// in a chain: req → M1 → M2 → Handler → M2 → M1 → resp
func RequireAuth(tokens *TokenService, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := Authenticate(r, tokens)
			if err != nil {
				logger.Debug("request rejected by auth",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()),
				)
				writeUnauthorized(w, err)
				return
			}

			ctx := WithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Authenticate extracts and verifies the bearer token on r.
// It returns ErrNoToken, ErrTokenExpired or ErrInvalidToken on failure.
func Authenticate(r *http.Request, tokens *TokenService) (string, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", ErrNoToken
	}

	raw := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if raw == "" {
		return "", ErrNoToken
	}

	return tokens.Validate(raw)
}

// WithUserID returns a copy of ctx carrying the authenticated user ID.
// Tests use it to call handlers without going through RequireAuth.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext retrieves the authenticated user's ID from the request context.
//
// Returns ("", false) if the request did not pass through RequireAuth.
//
// Usage in handlers:
//
//	userID, ok := auth.UserIDFromContext(r.Context())
//	if !ok {
//	    // anonymous
//	}
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// AsAppError converts a verification failure into the matching 401 AppError.
func AsAppError(err error) *apperror.AppError {
	switch {
	case errors.Is(err, ErrNoToken):
		return apperror.Unauthorized(apperror.CodeNoToken, "Authorization token required")
	case errors.Is(err, ErrTokenExpired):
		return apperror.Unauthorized(apperror.CodeTokenExpired, "Token has expired")
	default:
		return apperror.Unauthorized(apperror.CodeInvalidToken, "Invalid token")
	}
}

// writeUnauthorized writes the same {"error":{...}} shape the handler
// package uses. It lives here so auth does not import handler.
func writeUnauthorized(w http.ResponseWriter, err error) {
	appErr := AsAppError(err)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="training-journal"`)
	w.WriteHeader(http.StatusUnauthorized)

	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}
