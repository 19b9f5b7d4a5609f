// Package middleware provides the HTTP cross-cutting layers: bearer
// authentication, role gates, request logging, CORS and metrics.
package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"fashion-shop/internal/model"
	"fashion-shop/internal/repository"
	"fashion-shop/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const principalKey = "principal"

// Auth verifies the bearer token and resolves the caller's account from
// the database, so role or deactivation changes apply on the next
// request rather than at next login.
func Auth(tokens *token.Manager, userRepo repository.UserRepository, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortWithError(c, model.ErrMissingToken)
			return
		}

		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			abortWithError(c, model.ErrInvalidToken)
			return
		}

		userID, err := tokens.VerifyAccessToken(raw)
		if err != nil {
			abortWithError(c, err)
			return
		}

		user, err := userRepo.GetByID(c.Request.Context(), userID)
		if err != nil {
			logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to resolve principal")
			abortWithError(c, fmt.Errorf("failed to resolve user"))
			return
		}
		if user == nil || !user.IsActive {
			abortWithError(c, model.ErrInvalidToken)
			return
		}

		c.Set(principalKey, model.Principal{
			UserID:   user.ID,
			Email:    user.Email,
			FullName: user.FullName,
			Roles:    user.Roles,
		})
		c.Next()
	}
}

// RequireRole gates a route to callers holding any of the allowed roles.
// It must run after Auth.
func RequireRole(allowed ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok {
			abortWithError(c, model.ErrMissingToken)
			return
		}
		if !principal.HasRole(allowed...) {
			abortWithError(c, model.ErrForbidden)
			return
		}
		c.Next()
	}
}

// PrincipalFrom returns the authenticated caller set by Auth.
func PrincipalFrom(c *gin.Context) (model.Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return model.Principal{}, false
	}
	principal, ok := value.(model.Principal)
	return principal, ok
}

// WithPrincipal injects a principal directly; used by handler tests.
func WithPrincipal(c *gin.Context, principal model.Principal) {
	c.Set(principalKey, principal)
}

func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"
	if de, ok := model.AsDomainError(err); ok {
		status = de.HTTPStatus()
		message = de.Message
	}
	c.AbortWithStatusJSON(status, model.Response{Success: false, Error: message})
}
