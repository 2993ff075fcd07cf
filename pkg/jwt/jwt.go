package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/xiebiao/bookstore-admin/pkg/errors"
)

// RoleAdministrator 管理员角色
// 后台的新增/编辑/删除接口都要求该角色
const RoleAdministrator = "administrator"

// Manager JWT管理器
// 设计说明：
// 1. 使用双Token机制：Access Token（短期）+ Refresh Token（长期）
// 2. Access Token用于API鉴权，有效期短（2小时）
// 3. Refresh Token用于刷新Access Token，有效期长（7天）
type Manager struct {
	secret             string        // JWT签名密钥
	accessTokenExpire  time.Duration // Access Token有效期
	refreshTokenExpire time.Duration // Refresh Token有效期
}

// NewManager 创建JWT管理器
func NewManager(secret string, accessTokenExpire, refreshTokenExpire time.Duration) *Manager {
	return &Manager{
		secret:             secret,
		accessTokenExpire:  accessTokenExpire,
		refreshTokenExpire: refreshTokenExpire,
	}
}

// Claims 自定义JWT Claims
// 学习要点：
// 1. 嵌入jwt.RegisteredClaims获取标准字段（exp、iat、nbf等）
// 2. 添加自定义字段（AdminID、Email、Role）
type Claims struct {
	AdminID uint   `json:"admin_id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// IsAdministrator 判断是否为管理员Token
func (c *Claims) IsAdministrator() bool {
	return c.Role == RoleAdministrator
}

// TokenPair Token对（Access + Refresh）
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // Access Token过期时间（秒）
}

// GenerateToken 生成Token对
func (m *Manager) GenerateToken(adminID uint, email, role string) (*TokenPair, error) {
	now := time.Now()

	// 1. 生成Access Token
	accessClaims := Claims{
		AdminID: adminID,
		Email:   email,
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTokenExpire)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "bookstore-admin",
			Subject:   fmt.Sprintf("%d", adminID),
		},
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims)
	accessTokenString, err := accessToken.SignedString([]byte(m.secret))
	if err != nil {
		return nil, apperrors.Wrap(err, "生成Access Token失败")
	}

	// 2. 生成Refresh Token（只保留身份字段，减少payload大小）
	refreshClaims := Claims{
		AdminID: adminID,
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.refreshTokenExpire)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "bookstore-admin",
			Subject:   fmt.Sprintf("%d", adminID),
		},
	}

	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims)
	refreshTokenString, err := refreshToken.SignedString([]byte(m.secret))
	if err != nil {
		return nil, apperrors.Wrap(err, "生成Refresh Token失败")
	}

	return &TokenPair{
		AccessToken:  accessTokenString,
		RefreshToken: refreshTokenString,
		ExpiresIn:    int64(m.accessTokenExpire.Seconds()),
	}, nil
}

// ParseToken 解析并验证Token
// 学习要点：
// 1. 验证签名（防止伪造）
// 2. 验证过期时间（exp）
// 3. 验证生效时间（nbf）
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// 验证签名算法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非法的签名算法: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	})

	if err != nil {
		if err == jwt.ErrTokenExpired {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, apperrors.ErrInvalidToken
}

// RefreshAccessToken 使用Refresh Token刷新Access Token
func (m *Manager) RefreshAccessToken(refreshToken string) (string, error) {
	// 1. 解析Refresh Token
	claims, err := m.ParseToken(refreshToken)
	if err != nil {
		return "", err
	}

	// 2. 生成新的Access Token
	now := time.Now()
	newClaims := Claims{
		AdminID: claims.AdminID,
		Email:   claims.Email,
		Role:    claims.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTokenExpire)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "bookstore-admin",
			Subject:   fmt.Sprintf("%d", claims.AdminID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, newClaims)
	tokenString, err := token.SignedString([]byte(m.secret))
	if err != nil {
		return "", apperrors.Wrap(err, "刷新Token失败")
	}

	return tokenString, nil
}
