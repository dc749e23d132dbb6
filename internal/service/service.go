package service

import (
	"go.uber.org/zap"

	"github.com/ksoeasyxiaosi/expert-selection-system/config"
	"github.com/ksoeasyxiaosi/expert-selection-system/internal/repository"
	"github.com/ksoeasyxiaosi/expert-selection-system/pkg/jwt"
	"github.com/ksoeasyxiaosi/expert-selection-system/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth        AuthService
	Requirement RequirementService
	Expert      ExpertService
	Selection   SelectionService
	Export      ExportService
}

// NewService 创建 Service 聚合
// rdb 为 nil 时使用进程内锁且不启用 Token 黑名单
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	var (
		locker    Locker
		blacklist TokenBlacklist
	)
	if rdb != nil {
		locker = NewRedisLocker(rdb, cfg.Selection.LockTTL, cfg.Selection.LockWait, logger)
		blacklist = rdb
	} else {
		locker = NewLocalLocker(cfg.Selection.LockWait)
	}

	return &Service{
		Auth:        NewAuthService(&cfg.Auth, jwtMgr, blacklist, logger),
		Requirement: NewRequirementService(repo, logger),
		Expert:      NewExpertService(repo, logger),
		Selection:   NewSelectionService(repo, locker, logger),
		Export:      NewExportService(repo, logger),
	}
}
