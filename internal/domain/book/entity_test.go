package book

import (
	"strings"
	"testing"
)

// TestNewBook 工厂方法初始版本号为1
func TestNewBook(t *testing.T) {
	b := NewBook("Go程序设计语言", "Donovan", 9900, true, 2)

	if b.Version != 1 {
		t.Errorf("初始版本号应为1，实际%d", b.Version)
	}
	if b.ID != 0 {
		t.Error("ID应由Store分配，创建时必须为0")
	}
	if !b.MatureContent || b.CategoryID != 2 {
		t.Errorf("字段未正确赋值: %+v", b)
	}
}

// TestBook_Validate 字段校验规则
func TestBook_Validate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Book)
		wantField string
	}{
		{"书名为空", func(b *Book) { b.Title = "" }, "title"},
		{"书名过长", func(b *Book) { b.Title = strings.Repeat("a", maxTitleLen+1) }, "title"},
		{"作者为空", func(b *Book) { b.Author = "" }, "author"},
		{"作者过长", func(b *Book) { b.Author = strings.Repeat("a", maxAuthorLen+1) }, "author"},
		{"价格为负", func(b *Book) { b.Price = -1 }, "price"},
		{"价格超限", func(b *Book) { b.Price = maxPrice + 1 }, "price"},
		{"未选分类", func(b *Book) { b.CategoryID = 0 }, "category_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBook("Go程序设计语言", "Donovan", 9900, false, 1)
			tt.modify(b)

			errs := b.Validate()
			if len(errs) != 1 {
				t.Fatalf("期望1个字段错误，实际%d个: %v", len(errs), errs)
			}
			if errs[0].Field != tt.wantField {
				t.Errorf("期望字段%q报错，实际%q", tt.wantField, errs[0].Field)
			}
		})
	}
}

// TestBook_Validate_OK 合法实体校验通过
func TestBook_Validate_OK(t *testing.T) {
	b := NewBook("Go程序设计语言", "Donovan", 0, false, 1) // 价格0是合法的
	if errs := b.Validate(); len(errs) != 0 {
		t.Errorf("合法实体不应有校验错误: %v", errs)
	}
}

// TestBook_ApplyEdit ID与Image不受编辑影响
func TestBook_ApplyEdit(t *testing.T) {
	b := NewBook("旧书名", "旧作者", 100, false, 1)
	b.ID = 7
	b.Image = "cover.png"

	b.ApplyEdit("新书名", "新作者", 200, true, 3)

	if b.ID != 7 {
		t.Error("ID不可变更")
	}
	if b.Image != "cover.png" {
		t.Error("Image由编辑流程单独决定，ApplyEdit不应修改")
	}
	if b.Title != "新书名" || b.Author != "新作者" || b.Price != 200 || !b.MatureContent || b.CategoryID != 3 {
		t.Errorf("字段未正确应用: %+v", b)
	}
}
