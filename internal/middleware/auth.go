package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xinwork/repair-order-api/internal/constants"
	apierrors "github.com/xinwork/repair-order-api/internal/errors"
	"github.com/xinwork/repair-order-api/internal/models"
	"github.com/xinwork/repair-order-api/internal/services"
)

// TokenResolver turns a bearer token into the active user it was issued to
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*models.User, error)
}

// RequireAuth checks the bearer token and stores the caller in the context
func RequireAuth(resolver TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Header("WWW-Authenticate", "Bearer")
			apierrors.Unauthorized(c, "Not authenticated")
			c.Abort()
			return
		}

		user, err := resolver.ResolveToken(c.Request.Context(), token)
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			apierrors.Respond(c, err)
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUserRole, user.Role)
		c.Set(constants.ContextKeyUsername, user.Username)
		c.Next()
	}
}

// RequireRole lets only callers holding one of roles through
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			apierrors.Unauthorized(c, "Not authenticated")
			c.Abort()
			return
		}
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		apierrors.Forbidden(c, "Insufficient permissions")
		c.Abort()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// GetActor returns the authenticated caller
func GetActor(c *gin.Context) (services.Actor, bool) {
	id, ok := GetUserID(c)
	if !ok {
		return services.Actor{}, false
	}
	role, _ := c.Get(constants.ContextKeyUserRole)
	r, _ := role.(models.Role)
	return services.Actor{ID: id, Role: r}, true
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, constants.TokenType) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
