// admin_only.go
package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/labstack/gommon/log"
)

const AdminKeyHeader = "X-Admin-Key"

// AdminOnly deja pasar solo requests con la clave de administración.
// Con la clave vacía las rutas de admin quedan cerradas.
func AdminOnly(adminKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		given := c.GetHeader(AdminKeyHeader)
		if adminKey == "" || subtle.ConstantTimeCompare([]byte(given), []byte(adminKey)) != 1 {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin privileges required"})
			c.Abort()
			return
		}
		c.Next()
		log.Debugf("admin request %s %s", c.Request.Method, c.Request.URL.Path)
	}
}
