package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"skillshare-api/models"
	"skillshare-api/store"
	"skillshare-api/utils"
)

// Key type for context
type contextKey string

const UserContextKey = contextKey("user")

// Guard holds what the auth middlewares need to verify callers
type Guard struct {
	Tokens  *utils.TokenManager
	Users   store.UserStore
	Logger  *zap.Logger
	Timeout time.Duration
}

// NewGuard creates a Guard
func NewGuard(tokens *utils.TokenManager, users store.UserStore, logger *zap.Logger, timeout time.Duration) *Guard {
	return &Guard{Tokens: tokens, Users: users, Logger: logger, Timeout: timeout}
}

// ClaimsFromContext returns the claims attached by Authenticate
func ClaimsFromContext(ctx context.Context) (jwt.MapClaims, bool) {
	claims, ok := ctx.Value(UserContextKey).(jwt.MapClaims)
	return claims, ok
}

// EmailFromContext returns the authenticated caller's email, or ""
func EmailFromContext(ctx context.Context) string {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return ""
	}
	return utils.ClaimEmail(claims)
}

// Authenticate verifies the bearer token and attaches its claims to the context
func (g *Guard) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			utils.WriteMessage(w, http.StatusUnauthorized, "unauthorized access")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.WriteMessage(w, http.StatusUnauthorized, "unauthorized access")
			return
		}

		claims, err := g.Tokens.Verify(parts[1])
		if err != nil {
			utils.WriteMessage(w, http.StatusUnauthorized, "unauthorized access")
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin lets through callers whose stored role is admin. Use after Authenticate.
func (g *Guard) RequireAdmin(next http.Handler) http.Handler {
	return g.requireRole(models.RoleAdmin, next)
}

// RequireTeacher lets through callers whose stored role is teacher. Use after Authenticate.
func (g *Guard) RequireTeacher(next http.Handler) http.Handler {
	return g.requireRole(models.RoleTeacher, next)
}

// requireRole reads the user on every request so role changes apply immediately
func (g *Guard) requireRole(role string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email := EmailFromContext(r.Context())
		if email == "" {
			utils.WriteMessage(w, http.StatusForbidden, "forbidden access")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), g.Timeout)
		defer cancel()
		user, err := g.Users.FindByEmail(ctx, email)
		if errors.Is(err, store.ErrNotFound) {
			utils.WriteMessage(w, http.StatusForbidden, "forbidden access")
			return
		}
		if err != nil {
			g.Logger.Error("role lookup failed", zap.String("email", email), zap.Error(err))
			utils.WriteMessage(w, http.StatusInternalServerError, "Database error")
			return
		}
		if user.Role != role {
			utils.WriteMessage(w, http.StatusForbidden, "forbidden access")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSelf rejects callers whose token email differs from the route variable
func (g *Guard) RequireSelf(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email := EmailFromContext(r.Context())
			if email == "" || mux.Vars(r)[param] != email {
				utils.WriteMessage(w, http.StatusForbidden, "forbidden access")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
