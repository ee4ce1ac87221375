package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

type ctxKey string

const userKey ctxKey = "user"

// Machine-readable codes attached to guard rejections so clients can tell a
// missing header from a stale token.
const (
	CodeNoToken      = "NO_TOKEN"
	CodeInvalidToken = "INVALID_TOKEN"
	CodeExpiredToken = "EXPIRED_TOKEN"
	CodeUserNotFound = "USER_NOT_FOUND"
)

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(userKey).(*User)
	return u, ok
}

func UserIDFromContext(ctx context.Context) (uint64, bool) {
	u, ok := UserFromContext(ctx)
	if !ok {
		return 0, false
	}
	return u.ID, true
}

// RequireAuth gates protected routes. It verifies the bearer token, confirms
// the subject still exists, and injects the user into the request context.
// Handlers behind it never see an unauthenticated request.
func RequireAuth(jwtSvc *JWT, users *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if h == "" || !strings.HasPrefix(h, "Bearer ") {
				deny(w, http.StatusUnauthorized, "access token required", CodeNoToken)
				return
			}
			token := strings.TrimPrefix(h, "Bearer ")

			uid, err := jwtSvc.Verify(token)
			if err != nil {
				if errors.Is(err, ErrTokenExpired) {
					deny(w, http.StatusForbidden, "token expired", CodeExpiredToken)
					return
				}
				deny(w, http.StatusForbidden, "invalid token", CodeInvalidToken)
				return
			}

			u, err := users.UserByID(r.Context(), uid)
			if err != nil {
				if errors.Is(err, ErrUserNotFound) {
					deny(w, http.StatusUnauthorized, "user not found", CodeUserNotFound)
					return
				}
				deny(w, http.StatusInternalServerError, "authentication failed", "")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func deny(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]any{"message": message}
	if code != "" {
		body["code"] = code
	}
	_ = json.NewEncoder(w).Encode(body)
}
