package handler

import (
	"github.com/gin-gonic/gin"

	appcategory "github.com/xiebiao/bookstore-admin/internal/application/category"
	"github.com/xiebiao/bookstore-admin/internal/interface/http/dto"
	"github.com/xiebiao/bookstore-admin/pkg/response"
)

// CategoryHandler 分类HTTP处理器
type CategoryHandler struct {
	listCategoriesUseCase *appcategory.ListCategoriesUseCase
}

// NewCategoryHandler 创建分类处理器
func NewCategoryHandler(listCategoriesUseCase *appcategory.ListCategoriesUseCase) *CategoryHandler {
	return &CategoryHandler{listCategoriesUseCase: listCategoriesUseCase}
}

// ListCategories 分类列表
// @Summary      分类列表
// @Description  编辑表单下拉选项,按名称升序
// @Tags         分类
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]dto.CategoryResponse}
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	views, err := h.listCategoriesUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]*dto.CategoryResponse, len(views))
	for i, v := range views {
		list[i] = &dto.CategoryResponse{ID: v.ID, Name: v.Name}
	}
	response.Success(c, list)
}
