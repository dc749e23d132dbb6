package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ksoeasyxiaosi/expert-selection-system/pkg/redis"
	"github.com/ksoeasyxiaosi/expert-selection-system/pkg/response"
)

// RateLimit 基于 Redis 滑动窗口的速率限制中间件，按客户端 IP + 路由计数
// rdb 为 nil 或 Redis 出错时降级放行
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		key := "rate_limit:" + c.ClientIP() + ":" + c.FullPath()
		allowed, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil || allowed {
			c.Next()
			return
		}

		response.TooManyRequests(c, 10004, "请求过于频繁，请稍后再试")
		c.Abort()
	}
}
