package integration

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAdminLogin 管理员登录流程测试
func TestAdminLogin(t *testing.T) {
	RequireServer(t)

	t.Run("正确密码登录成功", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/auth/login", map[string]string{
			"email":    AdminEmail,
			"password": AdminPassword,
		}, "")
		require.Equal(t, 0, resp.Code, "登录失败: %s", resp.Message)

		var data LoginData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.NotEmpty(t, data.AccessToken)
		assert.NotEmpty(t, data.RefreshToken)
	})

	t.Run("错误密码登录失败", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/auth/login", map[string]string{
			"email":    AdminEmail,
			"password": "wrong-password",
		}, "")
		assert.Equal(t, 40103, resp.Code, "错误密码应返回密码错误")
	})

	t.Run("不存在的账号登录失败", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/auth/login", map[string]string{
			"email":    "nobody@bookstore.local",
			"password": "whatever",
		}, "")
		assert.Equal(t, 40401, resp.Code, "不存在的账号应返回管理员不存在")
	})
}

// TestAdminLogout 登出后Token进入黑名单测试
func TestAdminLogout(t *testing.T) {
	RequireServer(t)

	token := LoginAdmin(t)

	// 登出前Token可用
	resp := GetJSON(t, BaseURL+"/books", token)
	require.Equal(t, 0, resp.Code, "登出前Token应可用: %s", resp.Message)

	// 登出
	resp = PostJSON(t, BaseURL+"/auth/logout", nil, token)
	require.Equal(t, 0, resp.Code, "登出失败: %s", resp.Message)

	// 登出后同一Token被拒绝
	resp = GetJSON(t, BaseURL+"/books", token)
	assert.NotEqual(t, 0, resp.Code, "登出后Token应失效")
	t.Logf("✓ 登出后访问被拒绝: %s", resp.Message)
}

// TestTokenRefresh 刷新Token测试
func TestTokenRefresh(t *testing.T) {
	RequireServer(t)

	loginResp := PostJSON(t, BaseURL+"/auth/login", map[string]string{
		"email":    AdminEmail,
		"password": AdminPassword,
	}, "")
	require.Equal(t, 0, loginResp.Code)

	var login LoginData
	require.NoError(t, json.Unmarshal(loginResp.Data, &login))

	resp := PostJSON(t, BaseURL+"/auth/refresh", map[string]string{
		"refresh_token": login.RefreshToken,
	}, "")
	require.Equal(t, 0, resp.Code, "刷新Token失败: %s", resp.Message)

	var refreshed struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &refreshed))
	assert.NotEmpty(t, refreshed.AccessToken)

	// 新Token可用
	listResp := GetJSON(t, BaseURL+"/books", refreshed.AccessToken)
	assert.Equal(t, 0, listResp.Code, "刷新得到的Token应可用")
}
