package book

import (
	"time"
)

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. Book是后台目录聚合的根实体,包含图书的核心属性
// 2. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 3. ID由Store分配,分配后不可变更
// 4. Image是服务端控制字段:表单提交不直接写它,由编辑流程根据
//    是否上传了新封面决定写入新文件名还是原样保留旧文件名
// 5. Version是乐观锁版本号,编辑表单以隐藏字段回传,用于检测并发修改
type Book struct {
	ID            uint
	Title         string // 书名
	Author        string // 作者
	Price         int64  // 价格(单位:分,1元=100分)
	MatureContent bool   // 成人内容标记
	CategoryID    uint   // 所属分类ID(外键,必填)
	Image         string // 封面文件名(可为空)
	Version       int    // 乐观锁版本号
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BookDetail 图书+分类名称(列表与详情页联查结果)
type BookDetail struct {
	Book
	CategoryName string // 分类名称
}

// NewBook 创建新图书(工厂方法)
// price单位为分,必须>=0;categoryID必填
func NewBook(title, author string, price int64, matureContent bool, categoryID uint) *Book {
	now := time.Now()
	return &Book{
		Title:         title,
		Author:        author,
		Price:         price,
		MatureContent: matureContent,
		CategoryID:    categoryID,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// FieldError 字段级校验错误
// 显式校验结果,不依赖任何传输层的绑定标签,便于表单重显
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// 字段长度上限(与数据库列定义保持一致)
const (
	maxTitleLen  = 200
	maxAuthorLen = 100
	maxPrice     = 99999999 // 999999.99元
)

// Validate 校验图书字段
// 业务规则:
// - 书名、作者非空且不超长
// - 价格>=0且不超过上限
// - 分类必填
// 返回空切片表示校验通过
func (b *Book) Validate() []FieldError {
	var errs []FieldError

	if b.Title == "" {
		errs = append(errs, FieldError{Field: "title", Message: "书名不能为空"})
	} else if len(b.Title) > maxTitleLen {
		errs = append(errs, FieldError{Field: "title", Message: "书名过长"})
	}

	if b.Author == "" {
		errs = append(errs, FieldError{Field: "author", Message: "作者不能为空"})
	} else if len(b.Author) > maxAuthorLen {
		errs = append(errs, FieldError{Field: "author", Message: "作者过长"})
	}

	if b.Price < 0 {
		errs = append(errs, FieldError{Field: "price", Message: "价格不能为负数"})
	} else if b.Price > maxPrice {
		errs = append(errs, FieldError{Field: "price", Message: "价格超出上限"})
	}

	if b.CategoryID == 0 {
		errs = append(errs, FieldError{Field: "category_id", Message: "必须选择分类"})
	}

	return errs
}

// ApplyEdit 将提交内容应用到实体(ID与Image除外)
// ID不可变;Image由编辑流程单独决定
func (b *Book) ApplyEdit(title, author string, price int64, matureContent bool, categoryID uint) {
	b.Title = title
	b.Author = author
	b.Price = price
	b.MatureContent = matureContent
	b.CategoryID = categoryID
	b.UpdatedAt = time.Now()
}
