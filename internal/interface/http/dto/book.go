package dto

import "fmt"

// CreateBookForm HTTP创建图书表单(multipart/form-data)
// 封面文件走同一表单的cover字段,不在结构体中绑定
// 注意:数值范围和非空校验由领域层负责并以字段错误形式重显,
// 这里只做类型绑定,不加binding校验标签(校验失败也要能重显原值)
type CreateBookForm struct {
	Title         string `form:"title" example:"Go语言实战"`
	Author        string `form:"author" example:"威廉·肯尼迪"`
	Price         int64  `form:"price" example:"5900"` // 价格(分),59.00元
	MatureContent bool   `form:"mature_content" example:"false"`
	CategoryID    uint   `form:"category_id" example:"1"`
}

// EditBookForm HTTP编辑图书表单(multipart/form-data)
// ID/Version/CurrentImage是编辑页渲染时埋入的隐藏字段,提交时原样回传
type EditBookForm struct {
	ID            uint   `form:"id" example:"1"`
	Title         string `form:"title" example:"Go语言实战"`
	Author        string `form:"author" example:"威廉·肯尼迪"`
	Price         int64  `form:"price" example:"5900"`
	MatureContent bool   `form:"mature_content" example:"false"`
	CategoryID    uint   `form:"category_id" example:"1"`
	Version       int    `form:"version" example:"3"`                      // 读取时的乐观锁版本号
	CurrentImage  string `form:"current_image" example:"abc-cover.png"` // 当前封面引用名
}

// BookResponse HTTP图书响应
type BookResponse struct {
	ID            uint   `json:"id" example:"1"`
	Title         string `json:"title" example:"Go语言实战"`
	Author        string `json:"author" example:"威廉·肯尼迪"`
	Price         int64  `json:"price" example:"5900"`       // 价格(分)
	PriceYuan     string `json:"price_yuan" example:"59.00"` // 价格(元),方便前端显示
	MatureContent bool   `json:"mature_content" example:"false"`
	CategoryID    uint   `json:"category_id" example:"1"`
	CategoryName  string `json:"category_name,omitempty" example:"科技"`
	Image         string `json:"image" example:"abc-cover.png"`
	Version       int    `json:"version" example:"3"`
	CreatedAt     string `json:"created_at" example:"2024-01-15 10:30:00"`
	UpdatedAt     string `json:"updated_at" example:"2024-01-15 10:30:00"`
}

// DeleteBookResponse HTTP删除响应
type DeleteBookResponse struct {
	Deleted bool `json:"deleted" example:"true"` // 本次是否真正删除了行
}

// FormatPriceYuan 格式化价格(分→元)
// 例如:5900分 → "59.00"
func FormatPriceYuan(priceFen int64) string {
	yuan := float64(priceFen) / 100.0
	return fmt.Sprintf("%.2f", yuan)
}
