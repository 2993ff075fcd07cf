package admin

import (
	"context"
)

// Repository 管理员仓储接口
// 后台不提供注册入口，仓储只有查询方法
type Repository interface {
	// FindByID 根据ID查找管理员
	// 如果不存在，返回ErrAdminNotFound
	FindByID(ctx context.Context, id uint) (*Admin, error)

	// FindByEmail 根据邮箱查找管理员
	// 如果不存在，返回ErrAdminNotFound
	FindByEmail(ctx context.Context, email string) (*Admin, error)
}
