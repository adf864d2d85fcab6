package utils

import "github.com/gin-gonic/gin"

// All API responses share the { success, data?, error?, message? } envelope.

func OK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func OKMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": true, "message": message})
}

func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

// FailField is for duplicate-unique-key conflicts where the client needs to
// know which field collided.
func FailField(c *gin.Context, status int, message string, field string) {
	c.JSON(status, gin.H{"success": false, "error": message, "field": field})
}

func AbortFail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": message})
}
