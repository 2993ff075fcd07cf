package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookstore-admin/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/bookstore-admin/pkg/errors"
	"github.com/xiebiao/bookstore-admin/pkg/jwt"
	"github.com/xiebiao/bookstore-admin/pkg/response"
)

// AuthMiddleware JWT认证中间件
// 设计说明：
// 1. 从Header提取Token
// 2. 检查Token黑名单（已登出的Token不能继续使用）
// 3. 验证Token有效性，并要求administrator角色
// 4. 将管理员信息注入Context
type AuthMiddleware struct {
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, sessionStore *redis.SessionStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
	}
}

// RequireAdmin 要求管理员登录
// 后台的列表和全部写操作都挂此中间件，只有详情页是公开的
//
//	admin := r.Group("/api/v1")
//	admin.Use(authMiddleware.RequireAdmin())
//	admin.POST("/books", handler.CreateBook)
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 从Header提取Token
		// 格式：Authorization: Bearer <token>
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.ErrorWithCode(c, apperrors.ErrCodeUnauthorized, "请先登录")
			c.Abort()
			return
		}

		// 2. 解析Token格式
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.ErrorWithCode(c, apperrors.ErrCodeInvalidToken, "Token格式错误")
			c.Abort()
			return
		}

		tokenString := parts[1]

		// 3. 检查Token是否在黑名单中（管理员已登出或Token被强制失效）
		isBlacklisted, err := m.sessionStore.IsInBlacklist(c.Request.Context(), tokenString)
		if err != nil {
			response.ErrorWithCode(c, apperrors.ErrCodeInternal, "验证Token失败")
			c.Abort()
			return
		}
		if isBlacklisted {
			response.ErrorWithCode(c, apperrors.ErrCodeTokenExpired, "Token已失效，请重新登录")
			c.Abort()
			return
		}

		// 4. 验证Token并解析Claims
		claims, err := m.jwtManager.ParseToken(tokenString)
		if err != nil {
			response.Error(c, err) // 自动处理ErrTokenExpired、ErrInvalidToken
			c.Abort()
			return
		}

		// 5. 角色检查：后台接口只对管理员开放
		if !claims.IsAdministrator() {
			response.Error(c, apperrors.ErrForbidden)
			c.Abort()
			return
		}

		// 6. 将管理员信息注入到Context（后续Handler可以使用）
		c.Set("admin_id", claims.AdminID)
		c.Set("email", claims.Email)
		c.Set("access_token", tokenString)

		c.Next()
	}
}

// =========================================
// Context辅助函数（供Handler使用）
// =========================================

// GetAdminID 从Context获取当前登录管理员ID
func GetAdminID(c *gin.Context) uint {
	if adminID, exists := c.Get("admin_id"); exists {
		if id, ok := adminID.(uint); ok {
			return id
		}
	}
	return 0
}

// GetAccessToken 从Context获取当前请求的Access Token（登出时用）
func GetAccessToken(c *gin.Context) string {
	if token, exists := c.Get("access_token"); exists {
		if t, ok := token.(string); ok {
			return t
		}
	}
	return ""
}

// MustGetAdminID 从Context获取管理员ID（如果不存在则panic）
// 说明：用于已经通过RequireAdmin中间件的Handler
func MustGetAdminID(c *gin.Context) uint {
	adminID := GetAdminID(c)
	if adminID == 0 {
		panic("admin_id not found in context")
	}
	return adminID
}
