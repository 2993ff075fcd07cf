package book

import (
	"context"
	"errors"

	"github.com/xiebiao/bookstore-admin/internal/domain/book"
	"github.com/xiebiao/bookstore-admin/internal/domain/category"
	"github.com/xiebiao/bookstore-admin/internal/infrastructure/event"
	"github.com/xiebiao/bookstore-admin/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookstore-admin/pkg/metrics"
)

// CreateBookUseCase 创建图书用例
// 设计说明:
// 1. 应用层负责用例编排:分类存在性检查、领域服务调用、
//    缓存与事件等副作用
// 2. 分类检查和写入放在同一事务中,保证检查与写入之间
//    分类不会被删除
// 3. 缓存失效和事件发布在事务提交之后执行
type CreateBookUseCase struct {
	bookService  book.Service
	categoryRepo category.Repository
	tx           *mysql.TxManager
	events       event.CatalogEvents
}

// NewCreateBookUseCase 创建用例
func NewCreateBookUseCase(
	bookService book.Service,
	categoryRepo category.Repository,
	tx *mysql.TxManager,
	events event.CatalogEvents,
) *CreateBookUseCase {
	return &CreateBookUseCase{
		bookService:  bookService,
		categoryRepo: categoryRepo,
		tx:           tx,
		events:       events,
	}
}

// CreateBookRequest 创建请求DTO
type CreateBookRequest struct {
	Title         string
	Author        string
	Price         int64 // 价格(分)
	MatureContent bool
	CategoryID    uint
	Cover         *book.Upload // 可选的封面上传
}

// Execute 执行创建用例
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (*MutationResponse, error) {
	incoming := book.NewBook(req.Title, req.Author, req.Price, req.MatureContent, req.CategoryID)

	var result *book.Result
	err := uc.tx.Transaction(ctx, func(txCtx context.Context) error {
		// 1. 分类存在性检查(CategoryID为0时交给领域校验报"必须选择分类")
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

		// 2. 领域服务:校验+封面保存+写库
		var err error
		result, err = uc.bookService.CreateBook(txCtx, incoming, req.Cover)
		return err
	})
	if err != nil {
		if req.Cover != nil && errors.Is(err, book.ErrCoverUploadFailed) {
			metrics.CoverUploadsTotal.WithLabelValues("failure").Inc()
		}
		return nil, err
	}

	// 校验失败重显
	if result.Redisplay() {
		metrics.BookEditRedisplaysTotal.Inc()
		return toMutationResponse(result), nil
	}

	// 成功副作用:指标+事件
	if req.Cover != nil {
		metrics.CoverUploadsTotal.WithLabelValues("success").Inc()
		metrics.CoverUploadBytes.Observe(float64(req.Cover.Size))
	}
	metrics.BooksCreatedTotal.Inc()
	uc.events.BookCreated(ctx, result.Book)

	return toMutationResponse(result), nil
}
