package admin

import (
	"context"
	"log"
	"time"

	"github.com/xiebiao/bookstore-admin/internal/domain/admin"
	"github.com/xiebiao/bookstore-admin/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookstore-admin/pkg/jwt"
)

// LoginUseCase 管理员登录用例
// 设计说明：
// 1. 验证邮箱密码（领域服务）
// 2. 生成JWT Token对（角色写入Claims）
// 3. 保存会话到Redis
type LoginUseCase struct {
	adminService admin.Service
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(
	adminService admin.Service,
	jwtManager *jwt.Manager,
	sessionStore *redis.SessionStore,
) *LoginUseCase {
	return &LoginUseCase{
		adminService: adminService,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
	}
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	// 1. 验证邮箱密码（调用领域服务）
	a, err := uc.adminService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	// 2. 生成JWT Token对
	tokenPair, err := uc.jwtManager.GenerateToken(a.ID, a.Email, a.Role)
	if err != nil {
		return nil, err
	}

	// 3. 保存会话到Redis（会话有效期=Refresh Token有效期）
	sessionData := map[string]interface{}{
		"admin_id": a.ID,
		"email":    a.Email,
		"nickname": a.Nickname,
		"login_at": time.Now().Unix(),
	}
	if err := uc.sessionStore.SaveSession(ctx, a.ID, sessionData, 7*24*time.Hour); err != nil {
		// 会话保存失败不影响登录，只记录日志
		log.Printf("[登录] 保存会话失败: %v", err)
	}

	return &LoginResponse{
		Admin: AdminInfo{
			ID:       a.ID,
			Email:    a.Email,
			Nickname: a.Nickname,
			Role:     a.Role,
		},
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

// LogoutUseCase 管理员登出用例
type LogoutUseCase struct {
	sessionStore *redis.SessionStore
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(sessionStore *redis.SessionStore) *LogoutUseCase {
	return &LogoutUseCase{sessionStore: sessionStore}
}

// Execute 执行登出
func (uc *LogoutUseCase) Execute(ctx context.Context, adminID uint, accessToken string) error {
	// 1. 删除会话
	if err := uc.sessionStore.DeleteSession(ctx, adminID); err != nil {
		return err
	}

	// 2. 将Access Token加入黑名单（防止Token在过期前继续使用）
	return uc.sessionStore.AddToBlacklist(ctx, accessToken, 2*time.Hour)
}

// =========================================
// 应用层DTO
// =========================================

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string
	Password string
}

// LoginResponse 登录响应
type LoginResponse struct {
	Admin        AdminInfo `json:"admin"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"` // Access Token过期时间（秒）
}

// AdminInfo 管理员信息
type AdminInfo struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
}
