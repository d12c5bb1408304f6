package middleware

import (
	"strings"

	"memberflow_backend/internal/auth"
	"memberflow_backend/internal/logger"
	"memberflow_backend/internal/models"
	"memberflow_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserIDKey = "auth_user_id"
	ctxRoleKey   = "auth_role"
)

// Auth validates the bearer token and stores the actor's id and role on the
// gin context and the request context (for log correlation).
func Auth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortWith(c, apperrors.NewUnauthorizedError("Authorization header is required"))
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortWith(c, apperrors.NewUnauthorizedError("Authorization header must be 'Bearer <token>'"))
			return
		}

		claims, err := tokens.Parse(parts[1])
		if err != nil {
			abortWith(c, apperrors.ErrInvalidToken)
			return
		}

		c.Set(ctxUserIDKey, claims.UserID)
		c.Set(ctxRoleKey, claims.Role)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))

		c.Next()
	}
}

// RequireRoles allows the request through only when the authenticated role
// is one of the given roles. Must run after Auth.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := CurrentRole(c)
		if !ok {
			abortWith(c, apperrors.NewUnauthorizedError("Authentication required"))
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		abortWith(c, apperrors.ErrInsufficientPermissions)
	}
}

// CurrentUserID returns the authenticated user's id set by Auth.
func CurrentUserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxUserIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// CurrentRole returns the authenticated user's role set by Auth.
func CurrentRole(c *gin.Context) (models.UserRole, bool) {
	v, ok := c.Get(ctxRoleKey)
	if !ok {
		return "", false
	}
	role, ok := v.(models.UserRole)
	return role, ok
}

func abortWith(c *gin.Context, err *apperrors.AppError) {
	c.AbortWithStatusJSON(err.HTTPCode, apperrors.ErrorResponse{Error: err})
}
