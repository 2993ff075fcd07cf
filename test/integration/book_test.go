package integration

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBookLifecycle 图书管理完整流程测试
// 覆盖：登录 → 创建 → 公开详情 → 编辑 → 删除
func TestBookLifecycle(t *testing.T) {
	RequireServer(t)

	token := LoginAdmin(t)
	t.Logf("✓ 管理员登录成功")

	var created BookData

	t.Run("创建图书", func(t *testing.T) {
		fields := map[string]string{
			"title":          UniqueTitle("Go语言实战"),
			"author":         "威廉·肯尼迪",
			"price":          "5900",
			"mature_content": "false",
			"category_id":    fmt.Sprintf("%d", FirstCategoryID(t, token)),
		}

		resp := PostForm(t, "POST", BaseURL+"/books", fields, "cover.png", token)
		require.Equal(t, 0, resp.Code, "创建图书失败: %s", resp.Message)

		require.NoError(t, json.Unmarshal(resp.Data, &created))
		assert.NotZero(t, created.ID, "应返回图书ID")
		assert.Equal(t, 1, created.Version, "新图书版本号应为1")
		assert.NotEmpty(t, created.Image, "带封面创建时应返回封面引用")
		t.Logf("✓ 图书创建成功, ID: %d, 封面: %s", created.ID, created.Image)
	})

	t.Run("公开详情无需登录", func(t *testing.T) {
		resp := GetJSON(t, fmt.Sprintf("%s/books/%d", BaseURL, created.ID), "")
		require.Equal(t, 0, resp.Code, "查询详情失败: %s", resp.Message)

		var detail BookData
		require.NoError(t, json.Unmarshal(resp.Data, &detail))
		assert.Equal(t, created.Title, detail.Title)
		assert.NotEmpty(t, detail.CategoryName, "详情应包含分类名称")
		t.Logf("✓ 公开详情查询成功, 分类: %s", detail.CategoryName)
	})

	t.Run("编辑不传封面保留原图", func(t *testing.T) {
		fields := map[string]string{
			"id":            fmt.Sprintf("%d", created.ID),
			"title":         created.Title + "(修订版)",
			"author":        created.Author,
			"price":         "6900",
			"category_id":   fmt.Sprintf("%d", created.CategoryID),
			"version":       fmt.Sprintf("%d", created.Version),
			"current_image": created.Image,
		}

		url := fmt.Sprintf("%s/books/%d", BaseURL, created.ID)
		resp := PostForm(t, "PUT", url, fields, "", token)
		require.Equal(t, 0, resp.Code, "编辑图书失败: %s", resp.Message)

		var edited BookData
		require.NoError(t, json.Unmarshal(resp.Data, &edited))
		assert.Equal(t, created.Version+1, edited.Version, "编辑后版本号应递增")
		assert.Equal(t, created.Image, edited.Image, "未上传新封面时应保留原封面")
		t.Logf("✓ 编辑成功, 版本号 %d → %d", created.Version, edited.Version)

		created = edited
	})

	t.Run("删除图书幂等", func(t *testing.T) {
		url := fmt.Sprintf("%s/books/%d", BaseURL, created.ID)

		resp := DeleteJSON(t, url, token)
		require.Equal(t, 0, resp.Code, "删除失败: %s", resp.Message)
		var first DeleteData
		require.NoError(t, json.Unmarshal(resp.Data, &first))
		assert.True(t, first.Deleted, "首次删除应真正删除行")

		resp = DeleteJSON(t, url, token)
		require.Equal(t, 0, resp.Code, "重复删除也应成功: %s", resp.Message)
		var second DeleteData
		require.NoError(t, json.Unmarshal(resp.Data, &second))
		assert.False(t, second.Deleted, "重复删除应为无操作")
		t.Logf("✓ 删除幂等性验证通过")
	})
}

// TestBookEditConflict 并发编辑冲突检测测试
// 两个"编辑者"基于同一版本提交，后提交者应收到写冲突错误
func TestBookEditConflict(t *testing.T) {
	RequireServer(t)

	token := LoginAdmin(t)
	book := CreateTestBook(t, token, UniqueTitle("并发测试"), "张三")
	url := fmt.Sprintf("%s/books/%d", BaseURL, book.ID)

	editFields := func(title string) map[string]string {
		return map[string]string{
			"id":            fmt.Sprintf("%d", book.ID),
			"title":         title,
			"author":        book.Author,
			"price":         fmt.Sprintf("%d", book.Price),
			"category_id":   fmt.Sprintf("%d", book.CategoryID),
			"version":       fmt.Sprintf("%d", book.Version),
			"current_image": book.Image,
		}
	}

	t.Run("先提交者成功", func(t *testing.T) {
		resp := PostForm(t, "PUT", url, editFields(book.Title+"_A"), "", token)
		require.Equal(t, 0, resp.Code, "首次编辑应成功: %s", resp.Message)
	})

	t.Run("后提交者收到写冲突", func(t *testing.T) {
		resp := PostForm(t, "PUT", url, editFields(book.Title+"_B"), "", token)
		assert.Equal(t, 40901, resp.Code, "过期版本提交应返回写冲突")
		t.Logf("✓ 冲突检测生效: %s", resp.Message)
	})

	t.Run("图书已删除时返回不存在", func(t *testing.T) {
		resp := DeleteJSON(t, url, token)
		require.Equal(t, 0, resp.Code)

		resp = PostForm(t, "PUT", url, editFields(book.Title+"_C"), "", token)
		assert.Equal(t, 40402, resp.Code, "对已删除图书提交编辑应返回不存在")
	})
}

// TestBookEditRedisplay 校验失败时的表单重显测试
func TestBookEditRedisplay(t *testing.T) {
	RequireServer(t)

	token := LoginAdmin(t)
	book := CreateTestBook(t, token, UniqueTitle("重显测试"), "李四")

	fields := map[string]string{
		"id":            fmt.Sprintf("%d", book.ID),
		"title":         "", // 标题为空触发校验失败
		"author":        book.Author,
		"price":         "-1", // 价格为负
		"category_id":   fmt.Sprintf("%d", book.CategoryID),
		"version":       fmt.Sprintf("%d", book.Version),
		"current_image": book.Image,
	}

	url := fmt.Sprintf("%s/books/%d", BaseURL, book.ID)
	resp := PostForm(t, "PUT", url, fields, "", token)
	assert.Equal(t, 40900, resp.Code, "校验失败应返回表单重显响应")

	var redisplay RedisplayData
	require.NoError(t, json.Unmarshal(resp.Data, &redisplay), "重显响应应可解析")
	assert.Equal(t, book.Author, redisplay.Payload.Author, "重显应回传用户提交的原值")
	assert.NotEmpty(t, redisplay.Errors, "重显应包含字段错误")
	assert.NotEmpty(t, redisplay.Choices, "重显应包含分类下拉选项")

	for _, fe := range redisplay.Errors {
		t.Logf("  字段错误: %s → %s", fe.Field, fe.Message)
	}

	// 重显不落库：版本号应保持不变
	detail := GetJSON(t, url, "")
	require.Equal(t, 0, detail.Code)
	var after BookData
	require.NoError(t, json.Unmarshal(detail.Data, &after))
	assert.Equal(t, book.Version, after.Version, "校验失败不应产生任何写入")
}

// TestBookEditIdentityMismatch 路径ID与表单ID不一致测试
func TestBookEditIdentityMismatch(t *testing.T) {
	RequireServer(t)

	token := LoginAdmin(t)
	book := CreateTestBook(t, token, UniqueTitle("身份测试"), "王五")

	fields := map[string]string{
		"id":            fmt.Sprintf("%d", book.ID+99999), // 与路径不一致
		"title":         book.Title,
		"author":        book.Author,
		"price":         fmt.Sprintf("%d", book.Price),
		"category_id":   fmt.Sprintf("%d", book.CategoryID),
		"version":       fmt.Sprintf("%d", book.Version),
		"current_image": book.Image,
	}

	url := fmt.Sprintf("%s/books/%d", BaseURL, book.ID)
	resp := PostForm(t, "PUT", url, fields, "", token)
	assert.Equal(t, 40402, resp.Code, "ID不一致应按不存在处理")
}

// TestBookListRequiresAdmin 列表接口权限测试
func TestBookListRequiresAdmin(t *testing.T) {
	RequireServer(t)

	t.Run("未登录访问列表被拒绝", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/books", "")
		assert.Equal(t, 40100, resp.Code, "未登录应返回未授权")
	})

	t.Run("登录后可访问列表", func(t *testing.T) {
		token := LoginAdmin(t)
		resp := GetJSON(t, BaseURL+"/books", token)
		require.Equal(t, 0, resp.Code, "管理员访问列表失败: %s", resp.Message)
	})
}

// TestBookListOrdering 列表排序测试
// 列表按作者、书名升序排列
func TestBookListOrdering(t *testing.T) {
	RequireServer(t)

	token := LoginAdmin(t)

	// 作者名倒序创建，验证列表按作者升序返回
	b1 := CreateTestBook(t, token, UniqueTitle("排序B"), "zz排序作者B")
	b2 := CreateTestBook(t, token, UniqueTitle("排序A"), "zz排序作者A")
	defer func() {
		DeleteJSON(t, fmt.Sprintf("%s/books/%d", BaseURL, b1.ID), token)
		DeleteJSON(t, fmt.Sprintf("%s/books/%d", BaseURL, b2.ID), token)
	}()

	resp := GetJSON(t, BaseURL+"/books", token)
	require.Equal(t, 0, resp.Code, "查询列表失败: %s", resp.Message)

	var books []BookData
	require.NoError(t, json.Unmarshal(resp.Data, &books))

	posA, posB := -1, -1
	for i, b := range books {
		switch b.ID {
		case b2.ID:
			posA = i
		case b1.ID:
			posB = i
		}
	}
	require.NotEqual(t, -1, posA, "列表应包含测试图书A")
	require.NotEqual(t, -1, posB, "列表应包含测试图书B")
	assert.Less(t, posA, posB, "作者名靠前的图书应排在前面")
}
