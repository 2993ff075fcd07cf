package dto

// CategoryResponse HTTP分类响应(编辑表单下拉选项)
type CategoryResponse struct {
	ID   uint   `json:"id" example:"1"`
	Name string `json:"name" example:"科技"`
}
