package category

import (
	apperrors "github.com/xiebiao/bookstore-admin/pkg/errors"
)

// 分类领域错误定义
var (
	// ErrCategoryNotFound 分类不存在
	ErrCategoryNotFound = apperrors.New(apperrors.ErrCodeCategoryNotFound, "分类不存在")
)
