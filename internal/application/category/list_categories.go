package category

import (
	"context"

	"github.com/xiebiao/bookstore-admin/internal/domain/category"
)

// ListCategoriesUseCase 分类列表用例
// 编辑/创建表单的下拉选项来源,顺序固定为名称升序
type ListCategoriesUseCase struct {
	categoryRepo category.Repository
}

// NewListCategoriesUseCase 创建分类列表用例
func NewListCategoriesUseCase(categoryRepo category.Repository) *ListCategoriesUseCase {
	return &ListCategoriesUseCase{categoryRepo: categoryRepo}
}

// CategoryView 分类视图
type CategoryView struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Execute 执行分类列表查询
func (uc *ListCategoriesUseCase) Execute(ctx context.Context) ([]*CategoryView, error) {
	categories, err := uc.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*CategoryView, len(categories))
	for i, c := range categories {
		result[i] = &CategoryView{ID: c.ID, Name: c.Name}
	}
	return result, nil
}
