package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 集成测试辅助工具
// 测试依赖本地运行的完整服务(API+MySQL+Redis),服务不可达时跳过

const (
	// BaseURL API基础URL
	BaseURL = "http://localhost:8080/api/v1"
	// PingURL 健康检查URL
	PingURL = "http://localhost:8080/ping"
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second

	// 默认预置的管理员账号(见mysql.seedDefaults)
	AdminEmail    = "admin@bookstore.local"
	AdminPassword = "admin123"
)

// RequireServer 服务不可达时跳过测试
func RequireServer(t *testing.T) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(PingURL)
	if err != nil {
		t.Skipf("跳过集成测试,服务未运行: %v", err)
	}
	resp.Body.Close()
}

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// LoginData 登录响应数据
type LoginData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// BookData 图书响应数据
type BookData struct {
	ID            uint   `json:"id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	Price         int64  `json:"price"`
	MatureContent bool   `json:"mature_content"`
	CategoryID    uint   `json:"category_id"`
	CategoryName  string `json:"category_name"`
	Image         string `json:"image"`
	Version       int    `json:"version"`
}

// DeleteData 删除响应数据
type DeleteData struct {
	Deleted bool `json:"deleted"`
}

// RedisplayData 表单重显响应数据
type RedisplayData struct {
	Payload BookData `json:"payload"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
	Choices []CategoryData `json:"choices"`
}

// CategoryData 分类响应数据
type CategoryData struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// PostJSON 发送POST请求并解析JSON响应
func PostJSON(t *testing.T, url string, data interface{}, token string) *Response {
	jsonData, err := json.Marshal(data)
	require.NoError(t, err, "JSON序列化失败")

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	require.NoError(t, err, "创建HTTP请求失败")

	req.Header.Set("Content-Type", "application/json")
	return doRequest(t, req, token)
}

// GetJSON 发送GET请求并解析JSON响应
func GetJSON(t *testing.T, url string, token string) *Response {
	req, err := http.NewRequest("GET", url, nil)
	require.NoError(t, err, "创建HTTP请求失败")
	return doRequest(t, req, token)
}

// DeleteJSON 发送DELETE请求并解析JSON响应
func DeleteJSON(t *testing.T, url string, token string) *Response {
	req, err := http.NewRequest("DELETE", url, nil)
	require.NoError(t, err, "创建HTTP请求失败")
	return doRequest(t, req, token)
}

// PostForm 发送multipart表单请求(创建/编辑图书)
// coverName非空时附带一个同名的假封面文件
func PostForm(t *testing.T, method, url string, fields map[string]string, coverName string, token string) *Response {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v), "写入表单字段失败")
	}

	if coverName != "" {
		fw, err := w.CreateFormFile("cover", coverName)
		require.NoError(t, err, "创建表单文件失败")
		_, err = fw.Write([]byte("fake-png-bytes"))
		require.NoError(t, err, "写入表单文件失败")
	}

	require.NoError(t, w.Close(), "关闭multipart writer失败")

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err, "创建HTTP请求失败")

	req.Header.Set("Content-Type", w.FormDataContentType())
	return doRequest(t, req, token)
}

// doRequest 执行请求并解析统一响应
func doRequest(t *testing.T, req *http.Request, token string) *Response {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	err = json.Unmarshal(body, &result)
	require.NoError(t, err, "解析JSON响应失败: %s", string(body))

	return &result
}

// LoginAdmin 用预置管理员账号登录并返回Token
func LoginAdmin(t *testing.T) string {
	loginReq := map[string]string{
		"email":    AdminEmail,
		"password": AdminPassword,
	}

	resp := PostJSON(t, BaseURL+"/auth/login", loginReq, "")
	require.Equal(t, 0, resp.Code, "管理员登录失败: %s", resp.Message)

	var data LoginData
	require.NoError(t, json.Unmarshal(resp.Data, &data), "解析登录响应失败")
	return data.AccessToken
}

// FirstCategoryID 取一个可用的分类ID
func FirstCategoryID(t *testing.T, token string) uint {
	resp := GetJSON(t, BaseURL+"/categories", token)
	require.Equal(t, 0, resp.Code, "查询分类失败: %s", resp.Message)

	var categories []CategoryData
	require.NoError(t, json.Unmarshal(resp.Data, &categories), "解析分类响应失败")
	require.NotEmpty(t, categories, "应有预置分类")
	return categories[0].ID
}

// CreateTestBook 创建测试图书并返回图书数据
func CreateTestBook(t *testing.T, token, title, author string) BookData {
	fields := map[string]string{
		"title":       title,
		"author":      author,
		"price":       "8900", // 89.00元
		"category_id": fmt.Sprintf("%d", FirstCategoryID(t, token)),
	}

	resp := PostForm(t, "POST", BaseURL+"/books", fields, "", token)
	require.Equal(t, 0, resp.Code, "创建图书失败: %s", resp.Message)

	var data BookData
	require.NoError(t, json.Unmarshal(resp.Data, &data), "解析图书响应失败")
	return data
}

// UniqueTitle 生成唯一的测试书名
func UniqueTitle(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}
