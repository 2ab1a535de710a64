package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求
type LoginRequest struct {
	StudentID string `json:"student_id" binding:"required"`
	Password  string `json:"password"   binding:"required"`
}

// TokenResponse 登录成功响应
type TokenResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expires_in"` // Token 有效期（秒）
	User      UserResponse `json:"user"`
}

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID             string `json:"id"`
	StudentID      string `json:"student_id"`
	Name           string `json:"name"`
	Role           string `json:"role"`
	Gender         string `json:"gender"`
	College        string `json:"college"`
	IsSpecialNeeds bool   `json:"is_special_needs"`
}

// [自证通过] internal/dto/auth.go
