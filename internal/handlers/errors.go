package handlers

import (
	"github.com/gin-gonic/gin"
)

// attachError records err on the gin context for the request log. c.Error
// returns *gin.Error, not error, hence the ignored result.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError writes {"error": message} and records err for the request log
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message})
}
