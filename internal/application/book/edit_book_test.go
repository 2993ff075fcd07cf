package book

import (
	"context"
	"errors"
	"testing"

	"github.com/xiebiao/bookstore-admin/internal/domain/book"
)

// TestEditBook_IdentityMismatchFirst 路由ID与表单ID不一致时应直接按
// "不存在"处理,先于分类检查和事务:即使分类ID是悬空的也不返回重显
func TestEditBook_IdentityMismatchFirst(t *testing.T) {
	// 依赖全部为nil:身份校验必须在触碰任何依赖之前完成,
	// 走到分类检查或事务就会panic,测试即失败
	uc := NewEditBookUseCase(nil, nil, nil, nil, nil)

	result, err := uc.Execute(context.Background(), 5, EditBookRequest{
		ID:         7,
		Title:      "Go语言实战",
		Author:     "威廉·肯尼迪",
		Price:      5900,
		CategoryID: 999, // 不存在的分类也不应触发重显
		Version:    1,
	})

	if !errors.Is(err, book.ErrIdentityMismatch) {
		t.Fatalf("期望ErrIdentityMismatch,实际: %v", err)
	}
	if result != nil {
		t.Errorf("身份不一致不应返回结果: %+v", result)
	}
}
