package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ksoeasyxiaosi/expert-selection-system/config"
	"github.com/ksoeasyxiaosi/expert-selection-system/internal/dto"
	"github.com/ksoeasyxiaosi/expert-selection-system/pkg/jwt"
)

// ── Mock TokenBlacklist ──

type mockBlacklist struct {
	tokens map[string]time.Duration
}

func newMockBlacklist() *mockBlacklist {
	return &mockBlacklist{tokens: make(map[string]time.Duration)}
}

func (m *mockBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	m.tokens[jti] = ttl
	return nil
}

func (m *mockBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	_, ok := m.tokens[jti]
	return ok, nil
}

// ── 测试辅助 ──

func setupTestAuthService(t *testing.T, enabled bool) (AuthService, *jwt.Manager, *mockBlacklist) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("生成密码哈希失败: %v", err)
	}
	cfg := &config.AuthConfig{
		Enabled:        enabled,
		JWTSecret:      "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL: time.Hour,
		Operator: config.OperatorConfig{
			Username:     "admin",
			PasswordHash: string(hash),
		},
	}
	mgr := jwt.NewManager(cfg)
	bl := newMockBlacklist()
	return NewAuthService(cfg, mgr, bl, zap.NewNop()), mgr, bl
}

func TestLogin_Success(t *testing.T) {
	svc, mgr, _ := setupTestAuthService(t, true)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "admin", Password: "Passw0rd!"})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if resp.ExpiresIn != 3600 {
		t.Errorf("期望 ExpiresIn=3600，实际=%d", resp.ExpiresIn)
	}
	if resp.Operator.Username != "admin" {
		t.Errorf("期望 Operator=admin，实际=%s", resp.Operator.Username)
	}

	claims, err := mgr.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("签发的 Token 应可解析: %v", err)
	}
	if claims.Username != "admin" {
		t.Errorf("Token 中 Username 不符合预期: %s", claims.Username)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _ := setupTestAuthService(t, true)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "admin", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestLogin_WrongUsername(t *testing.T) {
	svc, _, _ := setupTestAuthService(t, true)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "root", Password: "Passw0rd!"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestLogin_Disabled(t *testing.T) {
	svc, _, _ := setupTestAuthService(t, false)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "admin", Password: "Passw0rd!"})
	if !errors.Is(err, ErrAuthDisabled) {
		t.Errorf("期望 ErrAuthDisabled，实际: %v", err)
	}
}

func TestLogout_Blacklists(t *testing.T) {
	svc, _, bl := setupTestAuthService(t, true)

	if err := svc.Logout(context.Background(), "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Logout 应成功: %v", err)
	}
	ok, _ := bl.IsBlacklisted(context.Background(), "jti-1")
	if !ok {
		t.Error("注销后 Token 应在黑名单中")
	}
	if ttl := bl.tokens["jti-1"]; ttl <= 0 || ttl > time.Hour {
		t.Errorf("黑名单 TTL 不符合预期: %s", ttl)
	}
}

func TestLogout_NoBlacklist(t *testing.T) {
	cfg := &config.AuthConfig{Enabled: true, JWTSecret: "test-secret-key-for-unit-testing-2026", AccessTokenTTL: time.Hour}
	svc := NewAuthService(cfg, jwt.NewManager(cfg), nil, zap.NewNop())

	if err := svc.Logout(context.Background(), "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Errorf("未配置黑名单时 Logout 应为空操作: %v", err)
	}
}
