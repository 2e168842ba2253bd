package middleware

import (
	"luckyvista-backend/config"

	"github.com/gin-gonic/gin"
)

// DatabaseMiddleware makes the shared gorm handle available to handlers
// through the request context.
func DatabaseMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("db", config.Db)
		c.Next()
	}
}
