package admin

import (
	"time"
)

// Admin 后台管理员实体（聚合根）
// 设计说明：
// 1. 后台只有登录，没有开放注册，管理员账号由运维在数据库中预置
// 2. 密码已加密存储（bcrypt），不提供任何暴露明文的方法
// 3. Role用于签发Token时写入角色声明，目前只有administrator一种
type Admin struct {
	ID        uint
	Email     string
	Password  string // bcrypt哈希值
	Nickname  string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAdmin 创建管理员实体（工厂方法，预置账号脚本用）
// hashedPassword必须是bcrypt加密后的密码
func NewAdmin(email, hashedPassword, nickname, role string) *Admin {
	now := time.Now()
	return &Admin{
		Email:     email,
		Password:  hashedPassword,
		Nickname:  nickname,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
