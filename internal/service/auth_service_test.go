package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"restaurantapp/backend/config"
	"restaurantapp/backend/internal/dto"
	"restaurantapp/backend/internal/model"
	"restaurantapp/backend/pkg/jwt"
)

// ── 测试辅助 ──

func authTestConfig() *config.Config {
	cfg := testConfig()
	cfg.Auth = config.AuthConfig{
		JWTSecret:               "test-secret-key-for-auth-tests",
		AccessTokenTTL:          15 * time.Minute,
		RefreshTokenTTLDefault:  24 * time.Hour,
		RefreshTokenTTLRemember: 7 * 24 * time.Hour,
	}
	return cfg
}

func setupTestAuthService() (AuthService, *testRepos, *jwt.Manager) {
	repos := newTestRepos()
	cfg := authTestConfig()
	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := NewAuthService(cfg, repos.toRepository(), jwtMgr, zap.NewNop())
	return svc, repos, jwtMgr
}

func seedUser(repos *testRepos, id, email, password string, active bool) {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	repos.user.users[id] = &model.User{
		UserID:       id,
		Name:         "测试用户",
		Email:        email,
		PasswordHash: string(hash),
		Role:         "customer",
		IsActive:     active,
	}
}

// ════════════════════════════════════════════════════════════
// Login 测试
// ════════════════════════════════════════════════════════════

func TestAuthService_Login_Success(t *testing.T) {
	svc, repos, _ := setupTestAuthService()
	seedUser(repos, "user-1", "wang@example.com", "password123", true)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "wang@example.com", Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("应返回完整 Token 对")
	}
	if resp.User.Email != "wang@example.com" {
		t.Errorf("期望返回用户信息，实际=%+v", resp.User)
	}
	if resp.ExpiresIn != int((15 * time.Minute).Seconds()) {
		t.Errorf("期望 ExpiresIn=900，实际=%d", resp.ExpiresIn)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, repos, _ := setupTestAuthService()
	seedUser(repos, "user-1", "wang@example.com", "password123", true)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "wang@example.com", Password: "wrong",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, _, _ := setupTestAuthService()

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "nobody@example.com", Password: "password123",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("未注册邮箱也应返回 ErrInvalidCredentials（不泄露存在性），实际: %v", err)
	}
}

func TestAuthService_Login_DisabledUser(t *testing.T) {
	svc, repos, _ := setupTestAuthService()
	seedUser(repos, "user-1", "wang@example.com", "password123", false)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "wang@example.com", Password: "password123",
	})
	if !errors.Is(err, ErrUserDisabled) {
		t.Errorf("期望 ErrUserDisabled，实际: %v", err)
	}
}

// ════════════════════════════════════════════════════════════
// Register 测试
// ════════════════════════════════════════════════════════════

func TestAuthService_Register_Success(t *testing.T) {
	svc, repos, _ := setupTestAuthService()

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name: "李小红", Email: "li@example.com", Password: "password123",
	})
	if err != nil {
		t.Fatalf("Register 应成功: %v", err)
	}
	if resp.ID == "" {
		t.Error("应返回新用户 ID")
	}

	created, err := repos.user.GetByEmail(context.Background(), "li@example.com")
	if err != nil {
		t.Fatalf("注册后应能按邮箱查到用户: %v", err)
	}
	if created.Role != "customer" {
		t.Errorf("注册用户角色应为 customer，实际=%s", created.Role)
	}
	if created.PasswordHash == "password123" {
		t.Error("密码不应明文存储")
	}
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	svc, repos, _ := setupTestAuthService()
	seedUser(repos, "user-1", "wang@example.com", "password123", true)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name: "重复邮箱", Email: "wang@example.com", Password: "password456",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("期望 ErrEmailTaken，实际: %v", err)
	}
}

// ════════════════════════════════════════════════════════════
// RefreshToken / ChangePassword 测试
// ════════════════════════════════════════════════════════════

func TestAuthService_RefreshToken(t *testing.T) {
	svc, repos, jwtMgr := setupTestAuthService()
	seedUser(repos, "user-1", "wang@example.com", "password123", true)

	refreshToken, err := jwtMgr.GenerateRefreshToken("user-1", "customer", false)
	if err != nil {
		t.Fatalf("生成 RefreshToken 失败: %v", err)
	}

	resp, err := svc.RefreshToken(context.Background(), refreshToken)
	if err != nil {
		t.Fatalf("RefreshToken 应成功: %v", err)
	}
	if resp.AccessToken == "" {
		t.Error("应返回新的 AccessToken")
	}
}

func TestAuthService_RefreshToken_AccessTokenRejected(t *testing.T) {
	svc, repos, jwtMgr := setupTestAuthService()
	seedUser(repos, "user-1", "wang@example.com", "password123", true)

	accessToken, err := jwtMgr.GenerateAccessToken("user-1", "customer")
	if err != nil {
		t.Fatalf("生成 AccessToken 失败: %v", err)
	}

	_, err = svc.RefreshToken(context.Background(), accessToken)
	if !errors.Is(err, jwt.ErrTokenInvalid) {
		t.Errorf("用 AccessToken 刷新应被拒绝，实际: %v", err)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	svc, repos, _ := setupTestAuthService()
	seedUser(repos, "user-1", "wang@example.com", "oldpassword", true)

	err := svc.ChangePassword(context.Background(), "user-1", &dto.ChangePasswordRequest{
		OldPassword: "oldpassword", NewPassword: "newpassword1",
	})
	if err != nil {
		t.Fatalf("ChangePassword 应成功: %v", err)
	}

	// 新密码可登录
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "wang@example.com", Password: "newpassword1",
	}); err != nil {
		t.Errorf("新密码登录应成功: %v", err)
	}
}

func TestAuthService_ChangePassword_WrongOld(t *testing.T) {
	svc, repos, _ := setupTestAuthService()
	seedUser(repos, "user-1", "wang@example.com", "oldpassword", true)

	err := svc.ChangePassword(context.Background(), "user-1", &dto.ChangePasswordRequest{
		OldPassword: "guess", NewPassword: "newpassword1",
	})
	if !errors.Is(err, ErrWrongOldPassword) {
		t.Errorf("期望 ErrWrongOldPassword，实际: %v", err)
	}
}

func TestAuthService_ChangePassword_UserNotFound(t *testing.T) {
	svc, _, _ := setupTestAuthService()

	err := svc.ChangePassword(context.Background(), "nonexistent", &dto.ChangePasswordRequest{
		OldPassword: "a", NewPassword: "newpassword1",
	})
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}
