package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ksoeasyxiaosi/expert-selection-system/internal/dto"
	"github.com/ksoeasyxiaosi/expert-selection-system/internal/service"
	"github.com/ksoeasyxiaosi/expert-selection-system/pkg/response"
)

// AuthHandler 操作员认证 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login 操作员登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, 11001, "用户名或密码错误")
		case errors.Is(err, service.ErrAuthDisabled):
			response.NotFound(c, 11002, "未开启操作员认证")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// Logout 操作员登出，当前 Token 加入黑名单
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	jti := c.GetString("token_jti")
	exp, _ := c.Get("token_exp")
	expiresAt, _ := exp.(time.Time)

	if err := h.authSvc.Logout(c.Request.Context(), jti, expiresAt); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// GetCurrentOperator 当前操作员信息
// GET /api/v1/auth/me
func (h *AuthHandler) GetCurrentOperator(c *gin.Context) {
	username, ok := MustGetOperator(c)
	if !ok {
		return
	}

	result, err := h.authSvc.GetCurrentOperator(c.Request.Context(), username)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
