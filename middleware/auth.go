package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"luckyvista-backend/config"
	"luckyvista-backend/model"
	"luckyvista-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const callerKey = "caller"

// AuthMiddleware validates the bearer token and stores the resolved caller
// in the request context. Everything downstream receives the caller
// explicitly; no handler re-reads token claims.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return []byte(config.AppCfg.JWTAccessKey), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		userID, ok := claims["user_id"].(float64)
		if !ok || userID <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		tenant, _ := claims["tenant"].(string)
		role, _ := claims["role"].(string)

		c.Set(callerKey, service.Caller{
			UserID:   uint(userID),
			TenantID: tenant,
			Role:     role,
		})
		c.Next()
	}
}

// RequireAdmin aborts unless the resolved caller holds the super_admin
// role. Must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := GetCaller(c)
		if caller.Role != model.RoleSuperAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.Next()
	}
}

// GetCaller returns the caller resolved by AuthMiddleware, or the zero
// caller when the request is unauthenticated.
func GetCaller(c *gin.Context) service.Caller {
	value, exists := c.Get(callerKey)
	if !exists {
		return service.Caller{}
	}
	caller, ok := value.(service.Caller)
	if !ok {
		return service.Caller{}
	}
	return caller
}
