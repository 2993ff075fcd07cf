package handler

import (
	"github.com/gin-gonic/gin"

	appadmin "github.com/xiebiao/bookstore-admin/internal/application/admin"
	"github.com/xiebiao/bookstore-admin/internal/interface/http/dto"
	"github.com/xiebiao/bookstore-admin/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookstore-admin/pkg/errors"
	"github.com/xiebiao/bookstore-admin/pkg/jwt"
	"github.com/xiebiao/bookstore-admin/pkg/response"
)

// AuthHandler 认证HTTP处理器
type AuthHandler struct {
	loginUseCase  *appadmin.LoginUseCase
	logoutUseCase *appadmin.LogoutUseCase
	jwtManager    *jwt.Manager
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(
	loginUseCase *appadmin.LoginUseCase,
	logoutUseCase *appadmin.LogoutUseCase,
	jwtManager *jwt.Manager,
) *AuthHandler {
	return &AuthHandler{
		loginUseCase:  loginUseCase,
		logoutUseCase: logoutUseCase,
		jwtManager:    jwtManager,
	}
}

// Login 管理员登录
// @Summary      管理员登录
// @Description  邮箱密码登录,返回JWT Token对
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response{data=admin.LoginResponse}
// @Failure      401 {object} response.Response "邮箱或密码错误"
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数格式错误: "+err.Error())
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), appadmin.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Logout 管理员登出
// @Summary      管理员登出
// @Description  删除会话并将当前Token加入黑名单
// @Tags         认证
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	adminID := middleware.MustGetAdminID(c)
	accessToken := middleware.GetAccessToken(c)

	if err := h.logoutUseCase.Execute(c.Request.Context(), adminID, accessToken); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// RefreshToken 刷新Access Token
// @Summary      刷新Token
// @Description  用Refresh Token换取新的Access Token
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.RefreshTokenRequest true "Refresh Token"
// @Success      200 {object} response.Response{data=dto.RefreshTokenResponse}
// @Failure      401 {object} response.Response "Refresh Token无效"
// @Router       /api/v1/auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数格式错误: "+err.Error())
		return
	}

	accessToken, err := h.jwtManager.RefreshAccessToken(req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.RefreshTokenResponse{AccessToken: accessToken})
}
