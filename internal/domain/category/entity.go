package category

import (
	"time"
)

// Category 图书分类实体
// 后台编辑表单的下拉选项来源，也是Book.CategoryID的引用目标
type Category struct {
	ID        uint
	Name      string // 分类名称
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCategory 创建新分类（工厂方法）
func NewCategory(name string) *Category {
	now := time.Now()
	return &Category{
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
