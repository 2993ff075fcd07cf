package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/xiebiao/bookstore-admin/pkg/errors"
)

// Response 统一响应结构
// 设计说明：
// 1. Code是业务错误码（非HTTP状态码），方便客户端判断错误类型
// 2. Message是用户友好的提示信息
// 3. Data是业务数据，成功时返回，失败时为null
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应（Code=0表示成功）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应（自动处理AppError）
// 用法：
//
//	err := editBookUseCase.Execute(...)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)

	c.JSON(http.StatusOK, Response{
		Code:    appErr.Code,
		Message: appErr.Message,
		Data:    nil,
	})
}

// ErrorWithCode 自定义错误码和消息
func ErrorWithCode(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}

// =========================================
// 表单重显响应
// =========================================

// RedisplayData 校验失败时的表单重显数据
// 设计说明：
// 1. 校验失败不算传输层错误，HTTP状态码仍为200，业务码固定为40900
// 2. Payload原样返回调用方提交的内容，前端据此回填表单
// 3. Errors是字段级错误列表，Choices是下拉框等重显所需的选项数据
type RedisplayData struct {
	Payload interface{} `json:"payload"`
	Errors  interface{} `json:"errors"`
	Choices interface{} `json:"choices,omitempty"`
}

// Redisplay 校验失败响应：返回原始表单内容与字段错误，供前端重显
func Redisplay(c *gin.Context, payload, fieldErrors, choices interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    apperrors.ErrCodeInvalidParams,
		Message: "表单校验失败",
		Data: RedisplayData{
			Payload: payload,
			Errors:  fieldErrors,
			Choices: choices,
		},
	})
}

// =========================================
// 分页响应结构
// =========================================

// PageData 分页数据封装
type PageData struct {
	List       interface{} `json:"list"`        // 数据列表
	Total      int64       `json:"total"`       // 总记录数
	Page       int         `json:"page"`        // 当前页码
	PageSize   int         `json:"page_size"`   // 每页大小
	TotalPages int         `json:"total_pages"` // 总页数
}

// NewPageData 创建分页数据
func NewPageData(list interface{}, total int64, page, pageSize int) *PageData {
	totalPages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		totalPages++
	}

	return &PageData{
		List:       list,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// SuccessWithPage 分页成功响应
func SuccessWithPage(c *gin.Context, list interface{}, total int64, page, pageSize int) {
	Success(c, NewPageData(list, total, page, pageSize))
}
