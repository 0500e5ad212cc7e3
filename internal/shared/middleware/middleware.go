package middleware

import (
	"net/http"
	"strings"

	"eventure/internal/shared/apperrors"
	"eventure/internal/shared/config"
	"eventure/internal/shared/utils/response"
	"eventure/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// AuthContext carries the authenticated caller's identity into the core
// operations. Handlers build it once from the JWT claims so the services
// never read ambient session state.
type AuthContext struct {
	UserID uuid.UUID
	Role   users.Role
}

func (a AuthContext) IsOrganizer() bool {
	return a.Role == users.RoleOrganizer || a.Role == users.RoleAdmin
}

const contextKeyAuth = "auth_context"

// JWTAuth creates a JWT authentication middleware with config
func JWTAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Authorization header is required", nil, nil)
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "authorization header format must be Bearer {token}", nil, nil)
			c.Abort()
			return
		}

		tokenString := parts[1]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.JWT.Secret), nil
		})

		if err != nil || !token.Valid {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "invalid or expired token", nil, nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "invalid token claims", nil, nil)
			c.Abort()
			return
		}

		if tokenType, ok := claims["type"]; !ok || tokenType != "access" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "invalid token type", nil, nil)
			c.Abort()
			return
		}

		userIDStr, _ := claims["user_id"].(string)
		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "invalid user id in token", nil, nil)
			c.Abort()
			return
		}

		roleStr, _ := claims["role"].(string)
		if !users.IsValidRole(roleStr) {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "invalid role in token", nil, nil)
			c.Abort()
			return
		}

		c.Set(contextKeyAuth, AuthContext{
			UserID: userID,
			Role:   users.Role(roleStr),
		})

		c.Next()
	}
}

// GetAuthContext extracts the caller identity placed by JWTAuth.
func GetAuthContext(c *gin.Context) (AuthContext, error) {
	value, exists := c.Get(contextKeyAuth)
	if !exists {
		return AuthContext{}, apperrors.New(apperrors.KindUnauthorized, "not authenticated")
	}
	auth, ok := value.(AuthContext)
	if !ok {
		return AuthContext{}, apperrors.New(apperrors.KindUnauthorized, "invalid auth context")
	}
	return auth, nil
}

// RequireRoles middleware checks if user has any of the required roles
func RequireRoles(requiredRoles ...users.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, err := GetAuthContext(c)
		if err != nil {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "user role not found in context", nil, nil)
			c.Abort()
			return
		}

		hasRole := false
		for _, role := range requiredRoles {
			if auth.Role == role {
				hasRole = true
				break
			}
		}

		if !hasRole {
			response.RespondJSON(c, "error", http.StatusForbidden, "Insufficient permissions", nil, nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireOrganizer middleware that requires organizer (or admin) role
func RequireOrganizer() gin.HandlerFunc {
	return RequireRoles(users.RoleOrganizer, users.RoleAdmin)
}
