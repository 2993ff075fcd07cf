package book

import (
	"context"
	"errors"

	"github.com/xiebiao/bookstore-admin/internal/domain/book"
	"github.com/xiebiao/bookstore-admin/internal/domain/category"
	"github.com/xiebiao/bookstore-admin/internal/infrastructure/event"
	"github.com/xiebiao/bookstore-admin/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookstore-admin/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookstore-admin/pkg/metrics"
)

// EditBookUseCase 编辑图书用例
// 设计说明:
// 1. 编辑协议本身(身份校验、重显、冲突归类)由领域服务实现,
//    用例层补充分类检查、缓存失效、事件发布和指标
// 2. 冲突指标按复查结果分outcome统计:not_found(已删除)与
//    conflict(仍存在但被改写)
type EditBookUseCase struct {
	bookService  book.Service
	categoryRepo category.Repository
	tx           *mysql.TxManager
	cache        *redis.BookCache
	events       event.CatalogEvents
}

// NewEditBookUseCase 创建编辑用例
func NewEditBookUseCase(
	bookService book.Service,
	categoryRepo category.Repository,
	tx *mysql.TxManager,
	cache *redis.BookCache,
	events event.CatalogEvents,
) *EditBookUseCase {
	return &EditBookUseCase{
		bookService:  bookService,
		categoryRepo: categoryRepo,
		tx:           tx,
		cache:        cache,
		events:       events,
	}
}

// EditBookRequest 编辑请求DTO
// ID/Version/CurrentImage都来自编辑表单的隐藏字段回传
type EditBookRequest struct {
	ID            uint
	Title         string
	Author        string
	Price         int64 // 价格(分)
	MatureContent bool
	CategoryID    uint
	Version       int          // 读取时的乐观锁版本号
	CurrentImage  string       // 当前封面引用名(无新封面时原样保留)
	Cover         *book.Upload // 可选的新封面上传
}

// Execute 执行编辑用例
// requestedID来自路由,req.ID来自表单,两者不一致按"不存在"处理
func (uc *EditBookUseCase) Execute(ctx context.Context, requestedID uint, req EditBookRequest) (*MutationResponse, error) {
	// 身份校验必须先于其他所有检查:ID不一致时直接拒绝,
	// 不做分类检查、不开事务、不返回重显数据
	if requestedID != req.ID {
		return nil, book.ErrIdentityMismatch
	}

	incoming := &book.Book{
		ID:            req.ID,
		Title:         req.Title,
		Author:        req.Author,
		Price:         req.Price,
		MatureContent: req.MatureContent,
		CategoryID:    req.CategoryID,
		Version:       req.Version,
	}

	var result *book.Result
	err := uc.tx.Transaction(ctx, func(txCtx context.Context) error {
		// 1. 分类存在性检查
		if incoming.CategoryID != 0 {
			ok, err := uc.categoryRepo.Exists(txCtx, incoming.CategoryID)
			if err != nil {
				return err
			}
			if !ok {
				result = &book.Result{
					Book:        incoming,
					FieldErrors: []book.FieldError{{Field: "category_id", Message: "分类不存在"}},
				}
				return nil
			}
		}

		// 2. 领域服务:编辑协议
		var err error
		result, err = uc.bookService.EditBook(txCtx, requestedID, incoming, req.Cover, req.CurrentImage)
		return err
	})
	if err != nil {
		if req.Cover != nil && errors.Is(err, book.ErrCoverUploadFailed) {
			metrics.CoverUploadsTotal.WithLabelValues("failure").Inc()
		}
		switch {
		case errors.Is(err, book.ErrEditConflict):
			metrics.BookEditConflictsTotal.WithLabelValues("conflict").Inc()
		case errors.Is(err, book.ErrBookNotFound):
			metrics.BookEditConflictsTotal.WithLabelValues("not_found").Inc()
		}
		return nil, err
	}

	// 校验失败重显
	if result.Redisplay() {
		metrics.BookEditRedisplaysTotal.Inc()
		return toMutationResponse(result), nil
	}

	// 成功副作用:指标+缓存失效+事件(事务已提交)
	if req.Cover != nil {
		metrics.CoverUploadsTotal.WithLabelValues("success").Inc()
		metrics.CoverUploadBytes.Observe(float64(req.Cover.Size))
	}
	metrics.BooksUpdatedTotal.Inc()
	if uc.cache != nil {
		_ = uc.cache.Invalidate(ctx, result.Book.ID)
	}
	uc.events.BookUpdated(ctx, result.Book)

	return toMutationResponse(result), nil
}
