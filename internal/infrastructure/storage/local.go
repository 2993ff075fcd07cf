package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/xiebiao/bookstore-admin/internal/domain/book"
	apperrors "github.com/xiebiao/bookstore-admin/pkg/errors"
)

// LocalAssetStore 本地磁盘封面存储
// 设计说明:
// 1. 引用名 = UUID + "-" + 清洗后的原始文件名,UUID保证并发上传
//    同名文件也不会冲突,绝不覆盖已有文件(O_EXCL兜底)
// 2. 直接写最终路径,写入或关闭失败时删除半成品文件;
//    Store成功返回时文件已完整落盘可读
// 3. Remove只用于失败补偿,不存在的文件不算错误
type LocalAssetStore struct {
	dir string
}

// NewLocalAssetStore 创建本地封面存储,目录不存在时自动创建
func NewLocalAssetStore(dir string) (*LocalAssetStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建封面目录失败: %w", err)
	}
	return &LocalAssetStore{dir: dir}, nil
}

// Store 保存文件内容,返回稳定的引用名
func (s *LocalAssetStore) Store(ctx context.Context, content io.Reader, originalName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ref := uuid.NewString() + "-" + sanitizeName(originalName)
	path := filepath.Join(s.dir, ref)

	// UUID前缀已保证唯一,O_EXCL是"绝不覆盖"契约的最后一道防线
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", apperrors.Wrap(err, "创建封面文件失败")
	}

	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(path)
		return "", apperrors.Wrap(err, "写入封面文件失败")
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", apperrors.Wrap(err, "关闭封面文件失败")
	}

	return ref, nil
}

// Remove 删除指定引用名的文件(不存在不算错误)
func (s *LocalAssetStore) Remove(ctx context.Context, ref string) error {
	// 引用名可能来自外部输入,清洗后再拼路径,防止路径穿越
	path := filepath.Join(s.dir, sanitizeName(ref))
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return apperrors.Wrap(err, "删除封面文件失败")
	}
	return nil
}

// Dir 封面目录(静态文件服务挂载用)
func (s *LocalAssetStore) Dir() string {
	return s.dir
}

// sanitizeName 清洗文件名:去掉目录部分和路径分隔符
func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, string(os.PathSeparator), "")
	if name == "" || name == "." || name == ".." {
		return "unnamed"
	}
	return name
}

// 编译期断言:LocalAssetStore实现book.AssetStore接口
var _ book.AssetStore = (*LocalAssetStore)(nil)
