package dto

// LoginRequest HTTP登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"admin@bookstore.local"`
	Password string `json:"password" binding:"required" example:"admin123"`
}

// RefreshTokenRequest HTTP刷新Token请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshTokenResponse HTTP刷新Token响应
type RefreshTokenResponse struct {
	AccessToken string `json:"access_token"`
}
