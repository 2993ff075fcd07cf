package book

import (
	"context"

	"github.com/xiebiao/bookstore-admin/internal/domain/book"
)

// ListBooksUseCase 图书列表用例
// 后台列表页:全量返回,排序固定为作者升序、书名升序
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建列表用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{bookService: bookService}
}

// Execute 执行列表查询
func (uc *ListBooksUseCase) Execute(ctx context.Context) ([]*BookDetailView, error) {
	details, err := uc.bookService.ListBooks(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*BookDetailView, len(details))
	for i, d := range details {
		result[i] = toBookDetailView(d)
	}
	return result, nil
}
