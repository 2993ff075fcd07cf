package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newStore(t *testing.T) *LocalAssetStore {
	t.Helper()
	s, err := NewLocalAssetStore(t.TempDir())
	if err != nil {
		t.Fatalf("创建存储失败: %v", err)
	}
	return s
}

// TestStore_UniqueRefs 同名文件并发保存也不冲突,引用名各不相同
func TestStore_UniqueRefs(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	ref1, err := s.Store(ctx, strings.NewReader("a"), "cover.png")
	if err != nil {
		t.Fatalf("保存失败: %v", err)
	}
	ref2, err := s.Store(ctx, strings.NewReader("b"), "cover.png")
	if err != nil {
		t.Fatalf("保存失败: %v", err)
	}

	if ref1 == ref2 {
		t.Fatalf("同名文件引用名应不同: %s", ref1)
	}
	if !strings.HasSuffix(ref1, "-cover.png") {
		t.Errorf("引用名应保留原始文件名后缀: %s", ref1)
	}
}

// TestStore_ImmediatelyReadable 保存返回后文件立即可读且内容完整
func TestStore_ImmediatelyReadable(t *testing.T) {
	s := newStore(t)

	ref, err := s.Store(context.Background(), strings.NewReader("png-bytes"), "cover.png")
	if err != nil {
		t.Fatalf("保存失败: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(s.Dir(), ref))
	if err != nil {
		t.Fatalf("读取失败: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("内容不完整: %q", data)
	}
}

// TestStore_SanitizesName 路径穿越文件名被清洗为纯文件名
func TestStore_SanitizesName(t *testing.T) {
	s := newStore(t)

	ref, err := s.Store(context.Background(), strings.NewReader("x"), "../../etc/passwd")
	if err != nil {
		t.Fatalf("保存失败: %v", err)
	}
	if strings.Contains(ref, "/") || strings.Contains(ref, "..") {
		t.Errorf("引用名不应包含路径成分: %s", ref)
	}
	if _, err := os.Stat(filepath.Join(s.Dir(), ref)); err != nil {
		t.Errorf("文件应保存在封面目录内: %v", err)
	}
}

// TestRemove_Idempotent 删除不存在的文件不算错误
func TestRemove_Idempotent(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	ref, err := s.Store(ctx, strings.NewReader("x"), "cover.png")
	if err != nil {
		t.Fatalf("保存失败: %v", err)
	}

	if err := s.Remove(ctx, ref); err != nil {
		t.Fatalf("删除失败: %v", err)
	}
	if err := s.Remove(ctx, ref); err != nil {
		t.Fatalf("重复删除应幂等成功: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.Dir(), ref)); !os.IsNotExist(err) {
		t.Error("文件应已被删除")
	}
}
