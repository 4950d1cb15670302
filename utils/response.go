package utils

import "github.com/gin-gonic/gin"

// JSONSuccess writes {message, data}; message is looked up from the catalog.
func JSONSuccess(c *gin.Context, status int, code string, data interface{}) {
	c.JSON(status, gin.H{"message": Message(code, nil), "data": data})
}

// JSONError writes {message, code} and aborts the chain.
func JSONError(c *gin.Context, status int, code string, params map[string]any) {
	c.AbortWithStatusJSON(status, gin.H{"message": Message(code, params), "code": code})
}
