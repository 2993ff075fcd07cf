package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookstore-admin/internal/domain/category"
	apperrors "github.com/xiebiao/bookstore-admin/pkg/errors"
)

// categoryRepository 分类仓储实现(MySQL)
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓储
func NewCategoryRepository(db *gorm.DB) category.Repository {
	return &categoryRepository{db: db}
}

// List 查询全部分类,按名称升序(编辑表单下拉选项的稳定顺序)
func (r *categoryRepository) List(ctx context.Context) ([]*category.Category, error) {
	var models []CategoryModel
	err := r.getDB(ctx).Order("name ASC").Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询分类列表失败")
	}

	result := make([]*category.Category, len(models))
	for i := range models {
		result[i] = toCategoryEntity(&models[i])
	}
	return result, nil
}

// FindByID 根据ID查找分类
func (r *categoryRepository) FindByID(ctx context.Context, id uint) (*category.Category, error) {
	var model CategoryModel
	err := r.getDB(ctx).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, category.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(err, "查询分类失败")
	}

	return toCategoryEntity(&model), nil
}

// Exists 判断分类是否存在
func (r *categoryRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.getDB(ctx).Model(&CategoryModel{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, apperrors.Wrap(err, "查询分类失败")
	}
	return count > 0, nil
}

// toCategoryEntity GORM模型 → 领域实体
func toCategoryEntity(model *CategoryModel) *category.Category {
	return &category.Category{
		ID:        model.ID,
		Name:      model.Name,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func (r *categoryRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}
