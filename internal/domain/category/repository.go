package category

import (
	"context"
)

// Repository 分类仓储接口
// 设计说明：
// 1. 接口定义在domain层（依赖倒置原则），实现在infrastructure/persistence/mysql
// 2. List的排序固定为名称升序：编辑表单的下拉选项顺序是稳定的页面约定
type Repository interface {
	// List 查询全部分类，按名称升序
	List(ctx context.Context) ([]*Category, error)

	// FindByID 根据ID查找分类
	FindByID(ctx context.Context, id uint) (*Category, error)

	// Exists 判断分类是否存在（外键引用校验用）
	Exists(ctx context.Context, id uint) (bool, error)
}
