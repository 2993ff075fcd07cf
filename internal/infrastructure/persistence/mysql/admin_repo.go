package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookstore-admin/internal/domain/admin"
	apperrors "github.com/xiebiao/bookstore-admin/pkg/errors"
)

// adminRepository 管理员仓储实现(MySQL)
type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository 创建管理员仓储
func NewAdminRepository(db *gorm.DB) admin.Repository {
	return &adminRepository{db: db}
}

// FindByID 根据ID查找管理员
func (r *adminRepository) FindByID(ctx context.Context, id uint) (*admin.Admin, error) {
	var model AdminModel
	err := r.db.WithContext(ctx).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, admin.ErrAdminNotFound
		}
		return nil, apperrors.Wrap(err, "查询管理员失败")
	}

	return toAdminEntity(&model), nil
}

// FindByEmail 根据邮箱查找管理员
func (r *adminRepository) FindByEmail(ctx context.Context, email string) (*admin.Admin, error) {
	var model AdminModel
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, admin.ErrAdminNotFound
		}
		return nil, apperrors.Wrap(err, "查询管理员失败")
	}

	return toAdminEntity(&model), nil
}

// toAdminEntity GORM模型 → 领域实体
func toAdminEntity(model *AdminModel) *admin.Admin {
	return &admin.Admin{
		ID:        model.ID,
		Email:     model.Email,
		Password:  model.Password,
		Nickname:  model.Nickname,
		Role:      model.Role,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
