package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// Logger stamps every request with an id and logs one line when it completes.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set("requestId", reqID)
		c.Header(RequestIDHeader, reqID)

		c.Next()

		status := c.Writer.Status()
		prefix := "➡️"
		if status >= 500 {
			prefix = "❌"
		} else if status >= 400 {
			prefix = "⚠️"
		}
		log.Printf("%s %s %s %d %s ip=%s req=%s",
			prefix, c.Request.Method, c.Request.URL.Path, status, time.Since(start), c.ClientIP(), reqID)
	}
}
