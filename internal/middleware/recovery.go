package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wanderlust-cottage/booking-api/pkg/logger"
	"go.uber.org/zap"
)

// MsgInternalError is the body error of any 500
const MsgInternalError = "A apărut o eroare la procesarea cererii. Vă rugăm încercați din nou."

// RecoveryMiddleware turns a handler panic into the generic JSON 500
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		logger.Error("Panic while handling request",
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.String("panic", fmt.Sprint(recovered)),
			zap.Stack("stack"))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": MsgInternalError})
	})
}
