package admin

import (
	apperrors "github.com/xiebiao/bookstore-admin/pkg/errors"
)

// 管理员领域错误定义
var (
	// ErrAdminNotFound 管理员不存在
	ErrAdminNotFound = apperrors.New(apperrors.ErrCodeAdminNotFound, "管理员不存在")
)
