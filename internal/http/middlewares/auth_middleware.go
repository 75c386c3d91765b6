package middlewares

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/storefront/platform/internal/auth"
)

// TokenVerifier is satisfied by *auth.Manager.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
	log      *slog.Logger
}

func NewAuthMiddleware(verifier TokenVerifier, log *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, log: log}
}

// RequireAuth resolves the bearer token into an auth.Identity. Every
// failure kind gets the same 401 body; the kind is only logged.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			abort(c, http.StatusUnauthorized, "unauthorized", "No token provided")
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if raw == "" {
			abort(c, http.StatusUnauthorized, "unauthorized", "No token provided")
			return
		}

		id, err := m.verifier.Verify(raw)
		if err != nil {
			m.log.InfoContext(c.Request.Context(), "token rejected", "reason", rejectReason(err))
			abort(c, http.StatusUnauthorized, "invalid_token", "Invalid token")
			return
		}

		c.Set(CtxIdentity, id)
		c.Next()
	}
}

func IdentityFromContext(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(CtxIdentity)
	if !ok {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrExpired):
		return "expired"
	case errors.Is(err, auth.ErrInvalidSignature):
		return "invalid_signature"
	default:
		return "malformed"
	}
}
