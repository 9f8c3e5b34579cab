package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Recovery answers a panicking handler with the generic bad request body
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger := GetLogger(c)
		logger.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("Recovered from panic")
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
	})
}
