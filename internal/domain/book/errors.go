package book

import (
	apperrors "github.com/xiebiao/bookstore-admin/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrIdentityMismatch 路由ID与提交内容的ID不一致
	// 按"不存在"处理:复用not-found错误码,不暴露更多信息
	ErrIdentityMismatch = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrConcurrentModified Store层信号:记录自读取以来已被其他写入者修改或删除
	// Repository的Update在乐观锁未命中时返回该错误,由领域服务复查后
	// 归类为ErrBookNotFound(已删除)或ErrEditConflict(仍存在)
	ErrConcurrentModified = apperrors.New(apperrors.ErrCodeWriteConflict, "记录在读取后已被修改或删除")

	// ErrEditConflict 未解决的写冲突:记录仍然存在但已被他人改写
	// 不自动重试、不做合并,向调用方报致命错误,由用户刷新后重新提交
	ErrEditConflict = apperrors.New(apperrors.ErrCodeWriteConflict, "图书已被其他人修改，请刷新后重试")

	// ErrCoverUploadFailed 封面保存失败(整个编辑/创建操作随之失败)
	ErrCoverUploadFailed = apperrors.New(apperrors.ErrCodeStorageError, "封面保存失败")
)
