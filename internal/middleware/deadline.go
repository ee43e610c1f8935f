package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// Deadline 为请求 context 设置整体截止时间，timeout <= 0 时不生效
func Deadline(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
