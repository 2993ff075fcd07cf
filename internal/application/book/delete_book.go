package book

import (
	"context"

	"github.com/xiebiao/bookstore-admin/internal/domain/book"
	"github.com/xiebiao/bookstore-admin/internal/infrastructure/event"
	"github.com/xiebiao/bookstore-admin/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookstore-admin/pkg/metrics"
)

// DeleteBookUseCase 删除图书用例
// 删除是幂等的:记录不存在也算成功,只是不触发副作用
type DeleteBookUseCase struct {
	bookService book.Service
	cache       *redis.BookCache
	events      event.CatalogEvents
}

// NewDeleteBookUseCase 创建删除用例
func NewDeleteBookUseCase(bookService book.Service, cache *redis.BookCache, events event.CatalogEvents) *DeleteBookUseCase {
	return &DeleteBookUseCase{bookService: bookService, cache: cache, events: events}
}

// DeleteBookResponse 删除响应DTO
type DeleteBookResponse struct {
	Deleted bool `json:"deleted"` // 本次是否真正删除了行
}

// Execute 执行删除用例
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id uint) (*DeleteBookResponse, error) {
	deleted, err := uc.bookService.DeleteBook(ctx, id)
	if err != nil {
		return nil, err
	}

	// 只有真正删除了行才触发副作用
	if deleted {
		metrics.BooksDeletedTotal.Inc()
		if uc.cache != nil {
			_ = uc.cache.Invalidate(ctx, id)
		}
		uc.events.BookDeleted(ctx, id)
	}

	return &DeleteBookResponse{Deleted: deleted}, nil
}
