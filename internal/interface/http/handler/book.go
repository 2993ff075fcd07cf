package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookstore-admin/internal/application/book"
	appcategory "github.com/xiebiao/bookstore-admin/internal/application/category"
	"github.com/xiebiao/bookstore-admin/internal/domain/book"
	"github.com/xiebiao/bookstore-admin/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bookstore-admin/pkg/errors"
	"github.com/xiebiao/bookstore-admin/pkg/response"
)

// BookHandler 图书HTTP处理器
// 设计说明:
// 1. Handler只做参数绑定、封面文件提取和响应转换,业务逻辑在用例层
// 2. 校验失败走Redisplay响应:原样返回提交内容+字段错误+分类选项,
//    前端据此回填表单,不需要重新拉取
type BookHandler struct {
	createBookUseCase     *appbook.CreateBookUseCase
	editBookUseCase       *appbook.EditBookUseCase
	getBookUseCase        *appbook.GetBookUseCase
	listBooksUseCase      *appbook.ListBooksUseCase
	deleteBookUseCase     *appbook.DeleteBookUseCase
	listCategoriesUseCase *appcategory.ListCategoriesUseCase
	maxUploadSize         int64
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	createBookUseCase *appbook.CreateBookUseCase,
	editBookUseCase *appbook.EditBookUseCase,
	getBookUseCase *appbook.GetBookUseCase,
	listBooksUseCase *appbook.ListBooksUseCase,
	deleteBookUseCase *appbook.DeleteBookUseCase,
	listCategoriesUseCase *appcategory.ListCategoriesUseCase,
	maxUploadSize int64,
) *BookHandler {
	return &BookHandler{
		createBookUseCase:     createBookUseCase,
		editBookUseCase:       editBookUseCase,
		getBookUseCase:        getBookUseCase,
		listBooksUseCase:      listBooksUseCase,
		deleteBookUseCase:     deleteBookUseCase,
		listCategoriesUseCase: listCategoriesUseCase,
		maxUploadSize:         maxUploadSize,
	}
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  后台图书列表,按作者、书名排序
// @Tags         图书管理
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]dto.BookResponse}
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	views, err := h.listBooksUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]*dto.BookResponse, len(views))
	for i, v := range views {
		list[i] = toBookResponse(&v.BookView, v.CategoryName)
	}
	response.Success(c, list)
}

// GetBook 图书详情(公开接口)
// @Summary      图书详情
// @Description  根据ID查询图书详情,含分类名称
// @Tags         图书管理
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	view, err := h.getBookUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toBookResponse(&view.BookView, view.CategoryName))
}

// CreateBook 创建图书
// @Summary      创建图书
// @Description  创建图书,可同时上传封面(multipart表单的cover字段)
// @Tags         图书管理
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title formData string true "书名"
// @Param        author formData string true "作者"
// @Param        price formData int true "价格(分)"
// @Param        mature_content formData bool false "成人内容标记"
// @Param        category_id formData int true "分类ID"
// @Param        cover formData file false "封面文件"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var form dto.CreateBookForm
	if err := c.ShouldBind(&form); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数格式错误: "+err.Error())
		return
	}

	cover, closeCover, err := h.openCover(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if closeCover != nil {
		defer closeCover()
	}

	result, err := h.createBookUseCase.Execute(c.Request.Context(), appbook.CreateBookRequest{
		Title:         form.Title,
		Author:        form.Author,
		Price:         form.Price,
		MatureContent: form.MatureContent,
		CategoryID:    form.CategoryID,
		Cover:         cover,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.Redisplay() {
		h.redisplay(c, result)
		return
	}

	response.Success(c, toBookResponse(result.Book, ""))
}

// EditBook 编辑图书
// @Summary      编辑图书
// @Description  编辑图书。表单需回传隐藏字段id/version/current_image;
// @Description  上传新封面时替换,否则保留current_image;
// @Description  记录已被他人修改时返回写冲突错误,需刷新后重试
// @Tags         图书管理
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Param        title formData string true "书名"
// @Param        author formData string true "作者"
// @Param        price formData int true "价格(分)"
// @Param        mature_content formData bool false "成人内容标记"
// @Param        category_id formData int true "分类ID"
// @Param        version formData int true "读取时的版本号"
// @Param        current_image formData string false "当前封面引用名"
// @Param        cover formData file false "新封面文件"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      409 {object} response.Response "并发写冲突"
// @Router       /api/v1/books/{id} [put]
func (h *BookHandler) EditBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var form dto.EditBookForm
	if err := c.ShouldBind(&form); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数格式错误: "+err.Error())
		return
	}

	cover, closeCover, err := h.openCover(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if closeCover != nil {
		defer closeCover()
	}

	result, err := h.editBookUseCase.Execute(c.Request.Context(), id, appbook.EditBookRequest{
		ID:            form.ID,
		Title:         form.Title,
		Author:        form.Author,
		Price:         form.Price,
		MatureContent: form.MatureContent,
		CategoryID:    form.CategoryID,
		Version:       form.Version,
		CurrentImage:  form.CurrentImage,
		Cover:         cover,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.Redisplay() {
		h.redisplay(c, result)
		return
	}

	response.Success(c, toBookResponse(result.Book, ""))
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Description  删除图书(幂等:记录不存在也返回成功)
// @Tags         图书管理
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=dto.DeleteBookResponse}
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.deleteBookUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.DeleteBookResponse{Deleted: result.Deleted})
}

// =========================================
// 辅助函数
// =========================================

// parseID 解析路由中的图书ID,非法ID按"图书不存在"处理
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		response.Error(c, book.ErrBookNotFound)
		return 0, false
	}
	return uint(id), true
}

// openCover 提取表单中的封面文件(cover字段,可选)
// 返回的close函数由调用方defer执行
func (h *BookHandler) openCover(c *gin.Context) (*book.Upload, func(), error) {
	fh, err := c.FormFile("cover")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, nil // 没有上传封面
		}
		return nil, nil, apperrors.New(apperrors.ErrCodeBindError, "封面文件读取失败")
	}

	if h.maxUploadSize > 0 && fh.Size > h.maxUploadSize {
		return nil, nil, apperrors.New(apperrors.ErrCodeInvalidParams, "封面文件超出大小限制")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "打开封面文件失败")
	}

	return &book.Upload{Content: f, Name: fh.Filename, Size: fh.Size},
		func() { f.Close() }, nil
}

// redisplay 校验失败响应:提交内容+字段错误+分类选项
func (h *BookHandler) redisplay(c *gin.Context, result *appbook.MutationResponse) {
	// 分类选项拉取失败不阻塞重显,前端可降级用已有选项
	var choices []*appcategory.CategoryView
	if cs, err := h.listCategoriesUseCase.Execute(c.Request.Context()); err == nil {
		choices = cs
	}
	response.Redisplay(c, result.Book, result.FieldErrors, choices)
}

// toBookResponse 应用层视图 → HTTP响应
func toBookResponse(v *appbook.BookView, categoryName string) *dto.BookResponse {
	return &dto.BookResponse{
		ID:            v.ID,
		Title:         v.Title,
		Author:        v.Author,
		Price:         v.Price,
		PriceYuan:     dto.FormatPriceYuan(v.Price),
		MatureContent: v.MatureContent,
		CategoryID:    v.CategoryID,
		CategoryName:  categoryName,
		Image:         v.Image,
		Version:       v.Version,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}
