package middleware

import (
	"context"
	"net/http"
	"strings"

	"enrollment-module/http/response"
	"enrollment-module/services"
)

type contextKey string

// ClaimsKey is the request-context key holding verified JWT claims.
const ClaimsKey contextKey = "claims"

// RequireAuth guards a handler behind a Bearer JWT.
func RequireAuth(auth *services.AuthService, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.Error(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := auth.VerifyToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			response.FromError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsKey, claims)
		next(w, r.WithContext(ctx))
	}
}
