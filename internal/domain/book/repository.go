package book

import (
	"context"
	"io"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 便于Mock测试,不依赖具体数据库实现
// 3. Update必须能检测"读取后被他人改写或删除"的情况,
//    通过Version列的乐观锁实现,未命中时返回ErrConcurrentModified,
//    绝不允许静默覆盖或静默no-op
type Repository interface {
	// Create 创建图书(由数据库分配自增ID并回填)
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindDetail 根据ID查找图书并联查分类名称(详情页)
	FindDetail(ctx context.Context, id uint) (*BookDetail, error)

	// List 查询全部图书并联查分类名称
	// 排序固定为:作者升序,再按书名升序(后台列表页约定)
	List(ctx context.Context) ([]*BookDetail, error)

	// Update 按乐观锁更新图书
	// WHERE id=? AND version=? 未命中任何行时返回ErrConcurrentModified,
	// 成功时递增实体的Version并刷新UpdatedAt
	Update(ctx context.Context, book *Book) error

	// Delete 删除图书(幂等)
	// 返回值表示本次调用是否真正删除了行;记录不存在不算错误
	Delete(ctx context.Context, id uint) (bool, error)

	// Exists 判断图书是否存在
	// 用于Update冲突后的复查:区分"已被删除"与"仍存在但被改写"
	Exists(ctx context.Context, id uint) (bool, error)
}

// Upload 一次待保存的封面上传
type Upload struct {
	Content io.Reader // 文件内容
	Name    string    // 原始文件名(仅作为存储名的后缀提示)
	Size    int64     // 字节数(用于指标统计,可为0)
}

// AssetStore 封面文件存储接口
// 契约:
// 1. Store生成的引用名必须全局唯一(并发调用也不冲突),绝不覆盖已有文件
// 2. Store返回后文件立即可按引用名读取
// 3. Remove仅用于失败补偿(删除刚保存的新文件),替换封面时旧文件不删除
type AssetStore interface {
	// Store 保存文件内容,返回稳定的引用名
	Store(ctx context.Context, content io.Reader, originalName string) (string, error)

	// Remove 删除指定引用名的文件(不存在不算错误)
	Remove(ctx context.Context, ref string) error
}
