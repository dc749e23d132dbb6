package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ksoeasyxiaosi/expert-selection-system/config"
	"github.com/ksoeasyxiaosi/expert-selection-system/internal/dto"
	"github.com/ksoeasyxiaosi/expert-selection-system/pkg/jwt"
)

// ── 认证模块业务错误 ──

var (
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrAuthDisabled       = errors.New("未开启操作员认证")
)

// TokenBlacklist Token 黑名单存储（Redis 实现见 pkg/redis）
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// AuthService 操作员认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	// Logout 将当前 Token 加入黑名单（未配置黑名单存储时为空操作）
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	GetCurrentOperator(ctx context.Context, username string) (*dto.OperatorResponse, error)
}

type authService struct {
	cfg       *config.AuthConfig
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService 创建 AuthService 实例；blacklist 可为 nil
func NewAuthService(cfg *config.AuthConfig, jwtMgr *jwt.Manager, blacklist TokenBlacklist, logger *zap.Logger) AuthService {
	return &authService{cfg: cfg, jwtMgr: jwtMgr, blacklist: blacklist, logger: logger}
}

func (s *authService) Login(_ context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	if !s.cfg.Enabled {
		return nil, ErrAuthDisabled
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.cfg.Operator.Username)) == 1
	passErr := bcrypt.CompareHashAndPassword([]byte(s.cfg.Operator.PasswordHash), []byte(req.Password))
	if !userOK || passErr != nil {
		s.logger.Warn("操作员登录失败", zap.String("username", req.Username))
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtMgr.GenerateAccessToken(s.cfg.Operator.Username)
	if err != nil {
		s.logger.Error("签发 Token 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int(s.jwtMgr.AccessTokenTTL().Seconds()),
		Operator:    dto.OperatorResponse{Username: s.cfg.Operator.Username},
	}, nil
}

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.blacklist == nil || jti == "" {
		return nil
	}
	if err := s.blacklist.BlacklistToken(ctx, jti, time.Until(expiresAt)); err != nil {
		s.logger.Error("Token 加入黑名单失败", zap.Error(err))
		return err
	}
	return nil
}

func (s *authService) GetCurrentOperator(_ context.Context, username string) (*dto.OperatorResponse, error) {
	return &dto.OperatorResponse{Username: username}, nil
}
