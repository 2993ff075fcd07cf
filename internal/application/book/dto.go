package book

import (
	"github.com/xiebiao/bookstore-admin/internal/domain/book"
)

// =========================================
// 应用层DTO
// =========================================

// BookView 图书视图
type BookView struct {
	ID            uint   `json:"id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	Price         int64  `json:"price"` // 价格(分)
	MatureContent bool   `json:"mature_content"`
	CategoryID    uint   `json:"category_id"`
	Image         string `json:"image"`
	Version       int    `json:"version"` // 编辑表单需回传的乐观锁版本号
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// BookDetailView 图书详情视图(含分类名称)
type BookDetailView struct {
	BookView
	CategoryName string `json:"category_name"`
}

// MutationResponse 创建/编辑响应
// FieldErrors非空表示校验失败重显:Book是原样返回的提交内容
type MutationResponse struct {
	Book        *BookView         `json:"book"`
	FieldErrors []book.FieldError `json:"field_errors,omitempty"`
}

// Redisplay 是否为校验失败重显
func (r *MutationResponse) Redisplay() bool {
	return len(r.FieldErrors) > 0
}

const timeLayout = "2006-01-02 15:04:05"

// toBookView 领域实体 → 视图
func toBookView(b *book.Book) *BookView {
	return &BookView{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		Price:         b.Price,
		MatureContent: b.MatureContent,
		CategoryID:    b.CategoryID,
		Image:         b.Image,
		Version:       b.Version,
		CreatedAt:     b.CreatedAt.Format(timeLayout),
		UpdatedAt:     b.UpdatedAt.Format(timeLayout),
	}
}

// toBookDetailView 领域详情 → 视图
func toBookDetailView(d *book.BookDetail) *BookDetailView {
	return &BookDetailView{
		BookView:     *toBookView(&d.Book),
		CategoryName: d.CategoryName,
	}
}

// toMutationResponse 领域结果 → 响应
func toMutationResponse(result *book.Result) *MutationResponse {
	return &MutationResponse{
		Book:        toBookView(result.Book),
		FieldErrors: result.FieldErrors,
	}
}
