package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"du-electronics-server/utils"
)

// Key type for context
type contextKey string

const UserContextKey = contextKey("user")

func forbidden(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// AuthMiddleware verifies the bearer credential and attaches the caller
// identity to the request context. Any failure short-circuits with 403
// and no identity attached.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			forbidden(w, "Authorization header missing")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			forbidden(w, "Invalid Authorization header format")
			return
		}

		claims, err := utils.VerifyToken(parts[1])
		if err != nil {
			forbidden(w, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminMiddleware ensures that the caller has admin privileges.
func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := r.Context().Value(UserContextKey).(*utils.Claims)
		if !ok || claims.Role != "admin" {
			forbidden(w, "Forbidden: Admins only")
			return
		}
		next.ServeHTTP(w, r)
	})
}
