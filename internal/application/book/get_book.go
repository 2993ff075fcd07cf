package book

import (
	"context"

	"github.com/xiebiao/bookstore-admin/internal/domain/book"
	"github.com/xiebiao/bookstore-admin/internal/infrastructure/persistence/redis"
)

// GetBookUseCase 图书详情用例(Cache-Aside)
// 详情页是唯一的公开接口,读多写少:先查缓存,未命中回源后写回
type GetBookUseCase struct {
	bookService book.Service
	cache       *redis.BookCache
}

// NewGetBookUseCase 创建详情用例
func NewGetBookUseCase(bookService book.Service, cache *redis.BookCache) *GetBookUseCase {
	return &GetBookUseCase{bookService: bookService, cache: cache}
}

// Execute 执行详情查询
func (uc *GetBookUseCase) Execute(ctx context.Context, id uint) (*BookDetailView, error) {
	// 1. 查缓存
	if uc.cache != nil {
		if detail, _ := uc.cache.GetDetail(ctx, id); detail != nil {
			return toBookDetailView(detail), nil
		}
	}

	// 2. 回源数据库
	detail, err := uc.bookService.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}

	// 3. 写回缓存(失败不影响主流程)
	if uc.cache != nil {
		_ = uc.cache.SetDetail(ctx, detail)
	}

	return toBookDetailView(detail), nil
}
