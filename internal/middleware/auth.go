package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/researchhub/researchhub-api/internal/pkg/jwt"
	"github.com/researchhub/researchhub-api/internal/pkg/response"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	RoleKey   contextKey = "role"
)

// Roles recognised by the API
const (
	RoleResearcher = "researcher"
	RoleModerator  = "moderator"
	RoleAdmin      = "admin"
)

// TokenQueryParam carries the access token on websocket handshakes
const TokenQueryParam = "token"

// Auth returns middleware that validates the JWT in the Authorization header
func Auth(jwtService *jwt.Service) func(http.Handler) http.Handler {
	return authenticate(jwtService, headerToken)
}

// WebSocketAuth is Auth for websocket upgrades. Browsers cannot set headers
// on the handshake, so the token query parameter is accepted as well.
func WebSocketAuth(jwtService *jwt.Service) func(http.Handler) http.Handler {
	return authenticate(jwtService, func(r *http.Request) string {
		if r.Header.Get("Authorization") == "" {
			return r.URL.Query().Get(TokenQueryParam)
		}
		return headerToken(r)
	})
}

func authenticate(jwtService *jwt.Service, extract func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extract(r)
			if token == "" {
				response.Unauthorized(w, "Missing or malformed authorization header")
				return
			}

			claims, err := jwtService.ValidateAccessToken(token)
			if err != nil {
				if err == jwt.ErrExpiredToken {
					response.Unauthorized(w, "Token expired")
				} else {
					response.Unauthorized(w, "Invalid token")
				}
				return
			}

			if claims.IsBanned {
				response.Forbidden(w, "Your account has been banned")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, RoleKey, claims.Role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func headerToken(r *http.Request) string {
	parts := strings.Split(r.Header.Get("Authorization"), " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}

// GetUserID extracts user ID from context
func GetUserID(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(UserIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// GetRole extracts role from context
func GetRole(ctx context.Context) string {
	if role, ok := ctx.Value(RoleKey).(string); ok {
		return role
	}
	return ""
}

// RequireRole returns middleware that checks user role
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userRole := GetRole(r.Context())

			for _, role := range roles {
				if userRole == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.Forbidden(w, "Insufficient permissions")
		})
	}
}

// RequireModerator allows moderators and admins
func RequireModerator() func(http.Handler) http.Handler {
	return RequireRole(RoleModerator, RoleAdmin)
}

// RequireAdmin returns middleware that requires admin role
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireRole(RoleAdmin)
}
