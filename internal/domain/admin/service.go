package admin

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/bookstore-admin/pkg/errors"
)

// Service 管理员领域服务
// 设计说明：
// 1. Service只处理登录校验这一条业务逻辑，不处理HTTP请求
// 2. 依赖Repository接口，不依赖具体实现（依赖倒置）
type Service interface {
	// Login 管理员登录
	Login(ctx context.Context, email, password string) (*Admin, error)

	// ValidatePassword 验证密码
	ValidatePassword(hashedPassword, plainPassword string) error
}

type service struct {
	repo Repository
}

// NewService 创建管理员服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Login 管理员登录
// 业务规则：
// 1. 邮箱必须存在
// 2. 密码必须正确
func (s *service) Login(ctx context.Context, email, password string) (*Admin, error) {
	// 1. 根据邮箱查找管理员
	a, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err // Repository已转换为ErrAdminNotFound
	}

	// 2. 验证密码
	if err := s.ValidatePassword(a.Password, password); err != nil {
		return nil, err // 返回ErrInvalidPassword
	}

	return a, nil
}

// ValidatePassword 验证密码
// bcrypt自动加盐，CompareHashAndPassword内部是常数时间比较
func (s *service) ValidatePassword(hashedPassword, plainPassword string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	if err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return apperrors.ErrInvalidPassword
		}
		return apperrors.Wrap(err, "密码验证失败")
	}
	return nil
}
