package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ksoeasyxiaosi/expert-selection-system/config"
	"github.com/ksoeasyxiaosi/expert-selection-system/internal/api/handler"
	"github.com/ksoeasyxiaosi/expert-selection-system/internal/api/middleware"
	"github.com/ksoeasyxiaosi/expert-selection-system/pkg/jwt"
	"github.com/ksoeasyxiaosi/expert-selection-system/pkg/redis"
)

// 登录接口限流：每个 IP 每分钟 10 次
const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

// Setup 初始化并返回 Gin 路由引擎
// cfg.Auth.Enabled 为 false 时业务路由不做认证（本机单操作员场景）
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, db *gorm.DB, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	if cfg.Server.BodyLimit > 0 {
		r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))
	}

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		if db != nil {
			if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")

	v1.POST("/auth/login", middleware.RateLimit(rdb, loginRateLimit, loginRateWindow), h.Auth.Login)

	api := v1.Group("")
	if cfg.Auth.Enabled {
		api.Use(middleware.OperatorAuth(jwtMgr, rdb, logger))
		api.POST("/auth/logout", h.Auth.Logout)
		api.GET("/auth/me", h.Auth.GetCurrentOperator)
	}

	api.GET("/specialties", h.Requirement.ListSpecialties)

	// 需求模块
	requirements := api.Group("/requirements")
	{
		requirements.GET("", h.Requirement.ListRequirements)
		requirements.POST("", h.Requirement.CreateRequirement)
		requirements.GET("/:id", h.Requirement.GetRequirement)
		requirements.PUT("/:id", h.Requirement.UpdateRequirement)
		requirements.DELETE("/:id", h.Requirement.DeleteRequirement)

		// 抽取
		requirements.POST("/:id/selection", h.Selection.StartSelection)
		requirements.POST("/:id/reselection", h.Selection.Reselect)
		requirements.PUT("/:id/experts/:expert_id/status", h.Selection.UpdateExpertStatus)
		requirements.GET("/:id/completion", h.Selection.GetCompletionStatus)
		requirements.GET("/:id/stats", h.Selection.GetStats)
		requirements.GET("/:id/selections", h.Selection.ListSelections)
		requirements.GET("/:id/export", h.Export.ExportSelections)
	}

	// 专家库模块
	experts := api.Group("/experts")
	{
		experts.GET("", h.Expert.ListExperts)
		experts.POST("", h.Expert.CreateExpert)
		experts.GET("/:id", h.Expert.GetExpert)
		experts.PUT("/:id", h.Expert.UpdateExpert)
		experts.DELETE("/:id", h.Expert.DeleteExpert)
	}

	return r
}
