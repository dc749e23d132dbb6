package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ksoeasyxiaosi/expert-selection-system/pkg/response"
)

// MustGetOperator 从 Gin 上下文中安全提取操作员用户名。
// 认证中间件未注入 operator 时写入 401 响应并返回 false，调用方应直接 return。
func MustGetOperator(c *gin.Context) (string, bool) {
	v, exists := c.Get("operator")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}
