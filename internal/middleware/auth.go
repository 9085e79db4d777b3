package middleware

import (
	"net/http"
	"strings"

	"buildmart-storefront/pkg/auth"

	"github.com/gin-gonic/gin"
)

const (
	contextUserID   = "user_id"
	contextRole     = "role"
	contextUserType = "user_type"
	contextEmail    = "email"
)

type AuthMiddleware struct {
	jwtManager *auth.JWTManager
}

func NewAuthMiddleware(jwtManager *auth.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager}
}

// AuthRequired middleware validates JWT token
func (a *AuthMiddleware) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			abort(c, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := a.jwtManager.ValidateToken(tokenParts[1])
		if err != nil || claims.TokenType != auth.AccessToken {
			abort(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		c.Set(contextUserID, claims.UserID)
		c.Set(contextRole, claims.Role)
		c.Set(contextUserType, claims.UserType)
		c.Set(contextEmail, claims.Email)
		c.Next()
	}
}

// RoleRequired middleware checks if user has required role
func (a *AuthMiddleware) RoleRequired(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := GetUserRole(c)
		if userRole == "" {
			abort(c, http.StatusForbidden, "Role information missing")
			return
		}

		for _, requiredRole := range requiredRoles {
			if userRole == requiredRole {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, "Insufficient permissions")
	}
}

// AdminRequired middleware ensures user is an admin
func (a *AuthMiddleware) AdminRequired() gin.HandlerFunc {
	return a.RoleRequired("admin")
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": message})
}

// GetUserID helper function to extract user ID from context
func GetUserID(c *gin.Context) string {
	return c.GetString(contextUserID)
}

// GetUserRole helper function to extract user role from context
func GetUserRole(c *gin.Context) string {
	return c.GetString(contextRole)
}
