package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/bookstore-admin/internal/domain/book"
	apperrors "github.com/xiebiao/bookstore-admin/pkg/errors"
)

// bookRepository 图书仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. Update用条件更新实现乐观锁:
//    UPDATE books SET ..., version = version + 1 WHERE id = ? AND version = ?
//    RowsAffected为0说明记录已被他人改写或删除,返回ErrConcurrentModified,
//    由领域服务复查Exists后归类,绝不静默覆盖
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	// 1. 领域实体 → GORM模型
	model := &BookModel{
		Title:         b.Title,
		Author:        b.Author,
		Price:         b.Price,
		MatureContent: b.MatureContent,
		CategoryID:    b.CategoryID,
		Image:         b.Image,
		Version:       1,
	}

	// 2. 插入数据库(参与context中的事务)
	db := r.getDB(ctx)
	if err := db.Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建图书失败")
	}

	// 3. 回填自增ID和时间戳
	b.ID = model.ID
	b.Version = model.Version
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := r.getDB(ctx).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}

	return toBookEntity(&model), nil
}

// bookDetailRow 联查结果行(图书+分类名称)
type bookDetailRow struct {
	BookModel
	CategoryName string
}

// FindDetail 根据ID查找图书并联查分类名称
func (r *bookRepository) FindDetail(ctx context.Context, id uint) (*book.BookDetail, error) {
	var row bookDetailRow
	err := r.getDB(ctx).Table("books").
		Select("books.*, categories.name AS category_name").
		Joins("LEFT JOIN categories ON categories.id = books.category_id").
		Where("books.id = ?", id).
		Take(&row).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书详情失败")
	}

	return toBookDetail(&row), nil
}

// List 查询全部图书并联查分类名称
// 排序固定:作者升序,再按书名升序(后台列表页约定)
func (r *bookRepository) List(ctx context.Context) ([]*book.BookDetail, error) {
	var rows []bookDetailRow
	err := r.getDB(ctx).Table("books").
		Select("books.*, categories.name AS category_name").
		Joins("LEFT JOIN categories ON categories.id = books.category_id").
		Order("books.author ASC, books.title ASC").
		Find(&rows).Error

	if err != nil {
		return nil, apperrors.Wrap(err, "查询图书列表失败")
	}

	result := make([]*book.BookDetail, len(rows))
	for i := range rows {
		result[i] = toBookDetail(&rows[i])
	}

	return result, nil
}

// Update 按乐观锁更新图书
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	now := time.Now()
	result := r.getDB(ctx).Model(&BookModel{}).
		Where("id = ? AND version = ?", b.ID, b.Version).
		Updates(map[string]interface{}{
			"title":          b.Title,
			"author":         b.Author,
			"price":          b.Price,
			"mature_content": b.MatureContent,
			"category_id":    b.CategoryID,
			"image":          b.Image,
			"version":        gorm.Expr("version + 1"),
			"updated_at":     now,
		})

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新图书失败")
	}

	// 未命中任何行:记录已被他人改写(version不匹配)或删除(id不存在)
	if result.RowsAffected == 0 {
		return book.ErrConcurrentModified
	}

	b.Version++
	b.UpdatedAt = now
	return nil
}

// Delete 删除图书(幂等硬删除)
func (r *bookRepository) Delete(ctx context.Context, id uint) (bool, error) {
	result := r.getDB(ctx).Delete(&BookModel{}, id)

	if result.Error != nil {
		return false, apperrors.Wrap(result.Error, "删除图书失败")
	}

	// 记录不存在不算错误,只报告本次没有删除行
	return result.RowsAffected > 0, nil
}

// Exists 判断图书是否存在
func (r *bookRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.getDB(ctx).Model(&BookModel{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, apperrors.Wrap(err, "查询图书失败")
	}
	return count > 0, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	return &book.Book{
		ID:            model.ID,
		Title:         model.Title,
		Author:        model.Author,
		Price:         model.Price,
		MatureContent: model.MatureContent,
		CategoryID:    model.CategoryID,
		Image:         model.Image,
		Version:       model.Version,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

// toBookDetail 联查行 → 领域详情
func toBookDetail(row *bookDetailRow) *book.BookDetail {
	return &book.BookDetail{
		Book:         *toBookEntity(&row.BookModel),
		CategoryName: row.CategoryName,
	}
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func (r *bookRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}
