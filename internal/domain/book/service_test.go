package book

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/xiebiao/bookstore-admin/pkg/metrics"
)

// 写路径经过Saga，Execute内部会记录指标，先完成注册
func TestMain(m *testing.M) {
	metrics.InitMetrics()
	os.Exit(m.Run())
}

// ==================== 内存Fake实现 ====================

// fakeRepo 内存版Repository，带乐观锁语义
type fakeRepo struct {
	books     map[uint]*Book
	nextID    uint
	createErr error
	updateErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{books: make(map[uint]*Book), nextID: 1}
}

func (r *fakeRepo) put(b *Book) *Book {
	cp := *b
	if cp.ID == 0 {
		cp.ID = r.nextID
		r.nextID++
	}
	r.books[cp.ID] = &cp
	return &cp
}

func (r *fakeRepo) Create(ctx context.Context, b *Book) error {
	if r.createErr != nil {
		return r.createErr
	}
	b.ID = r.nextID
	r.nextID++
	cp := *b
	r.books[cp.ID] = &cp
	return nil
}

func (r *fakeRepo) FindByID(ctx context.Context, id uint) (*Book, error) {
	b, ok := r.books[id]
	if !ok {
		return nil, ErrBookNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeRepo) FindDetail(ctx context.Context, id uint) (*BookDetail, error) {
	b, ok := r.books[id]
	if !ok {
		return nil, ErrBookNotFound
	}
	return &BookDetail{Book: *b, CategoryName: "测试分类"}, nil
}

func (r *fakeRepo) List(ctx context.Context) ([]*BookDetail, error) {
	result := make([]*BookDetail, 0, len(r.books))
	for _, b := range r.books {
		result = append(result, &BookDetail{Book: *b})
	}
	return result, nil
}

func (r *fakeRepo) Update(ctx context.Context, b *Book) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	existing, ok := r.books[b.ID]
	if !ok || existing.Version != b.Version {
		return ErrConcurrentModified
	}
	b.Version++
	cp := *b
	r.books[cp.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, id uint) (bool, error) {
	if _, ok := r.books[id]; !ok {
		return false, nil
	}
	delete(r.books, id)
	return true, nil
}

func (r *fakeRepo) Exists(ctx context.Context, id uint) (bool, error) {
	_, ok := r.books[id]
	return ok, nil
}

// fakeAssets 内存版AssetStore，记录保存和删除的引用名
type fakeAssets struct {
	stored   []string
	removed  []string
	storeErr error
	seq      int
}

func (f *fakeAssets) Store(ctx context.Context, content io.Reader, originalName string) (string, error) {
	if f.storeErr != nil {
		return "", f.storeErr
	}
	f.seq++
	ref := fmt.Sprintf("ref%d-%s", f.seq, originalName)
	f.stored = append(f.stored, ref)
	return ref, nil
}

func (f *fakeAssets) Remove(ctx context.Context, ref string) error {
	f.removed = append(f.removed, ref)
	return nil
}

func validBook(id uint, version int) *Book {
	return &Book{
		ID:         id,
		Title:      "Go程序设计语言",
		Author:     "Donovan",
		Price:      9900,
		CategoryID: 1,
		Version:    version,
	}
}

func newCover() *Upload {
	return &Upload{Content: strings.NewReader("png-bytes"), Name: "cover.png", Size: 9}
}

// ==================== EditBook ====================

// TestEditBook_IdentityMismatch 路由ID与提交ID不一致时按"不存在"处理，不发生任何写入
func TestEditBook_IdentityMismatch(t *testing.T) {
	repo := newFakeRepo()
	stored := repo.put(validBook(0, 1))
	assets := &fakeAssets{}
	svc := NewService(repo, assets)

	incoming := validBook(stored.ID, stored.Version)
	_, err := svc.EditBook(context.Background(), stored.ID+1, incoming, newCover(), "")

	if !errors.Is(err, ErrIdentityMismatch) {
		t.Fatalf("期望ErrIdentityMismatch，实际: %v", err)
	}
	if len(assets.stored) != 0 {
		t.Error("身份校验失败不应保存封面")
	}
	if got := repo.books[stored.ID]; got.Version != stored.Version {
		t.Error("身份校验失败不应修改记录")
	}
}

// TestEditBook_ValidationRedisplay 校验失败时原样返回提交内容，不写库
func TestEditBook_ValidationRedisplay(t *testing.T) {
	repo := newFakeRepo()
	stored := repo.put(validBook(0, 1))
	assets := &fakeAssets{}
	svc := NewService(repo, assets)

	incoming := validBook(stored.ID, stored.Version)
	incoming.Title = "" // 触发校验失败
	incoming.Price = -1

	result, err := svc.EditBook(context.Background(), stored.ID, incoming, nil, "old.png")
	if err != nil {
		t.Fatalf("校验失败不应返回传输层错误: %v", err)
	}
	if !result.Redisplay() {
		t.Fatal("期望重显结果")
	}
	if result.Book != incoming {
		t.Error("重显内容应是提交的原对象")
	}
	if len(result.FieldErrors) != 2 {
		t.Errorf("期望2个字段错误，实际%d个: %v", len(result.FieldErrors), result.FieldErrors)
	}
	if len(assets.stored) != 0 {
		t.Error("校验失败不应保存封面")
	}
	if got := repo.books[stored.ID]; got.Title != "Go程序设计语言" {
		t.Error("校验失败不应修改记录")
	}
}

// TestEditBook_NewCover 上传新封面时写入新引用名
func TestEditBook_NewCover(t *testing.T) {
	repo := newFakeRepo()
	stored := repo.put(validBook(0, 1))
	assets := &fakeAssets{}
	svc := NewService(repo, assets)

	incoming := validBook(stored.ID, stored.Version)
	result, err := svc.EditBook(context.Background(), stored.ID, incoming, newCover(), "old.png")
	if err != nil {
		t.Fatalf("编辑失败: %v", err)
	}
	if result.Redisplay() {
		t.Fatalf("不应重显: %v", result.FieldErrors)
	}

	if len(assets.stored) != 1 {
		t.Fatalf("期望保存1个封面，实际%d个", len(assets.stored))
	}
	if result.Book.Image != assets.stored[0] {
		t.Errorf("Image应为新引用名%q，实际%q", assets.stored[0], result.Book.Image)
	}
	if result.Book.Image == "old.png" {
		t.Error("上传新封面后不应保留旧引用名")
	}
	if len(assets.removed) != 0 {
		t.Error("替换封面时不应删除旧文件")
	}
}

// TestEditBook_CarryForwardImage 没有新封面时原样携带回传的引用名
func TestEditBook_CarryForwardImage(t *testing.T) {
	repo := newFakeRepo()
	stored := repo.put(validBook(0, 1))
	assets := &fakeAssets{}
	svc := NewService(repo, assets)

	for _, current := range []string{"old.png", ""} {
		incoming := validBook(stored.ID, repo.books[stored.ID].Version)
		result, err := svc.EditBook(context.Background(), stored.ID, incoming, nil, current)
		if err != nil {
			t.Fatalf("编辑失败: %v", err)
		}
		if result.Book.Image != current {
			t.Errorf("Image应原样携带%q，实际%q", current, result.Book.Image)
		}
	}
	if len(assets.stored) != 0 {
		t.Error("没有新封面不应调用Store")
	}
}

// TestEditBook_Success 成功路径：字段更新且版本号递增
func TestEditBook_Success(t *testing.T) {
	repo := newFakeRepo()
	stored := repo.put(validBook(0, 1))
	svc := NewService(repo, &fakeAssets{})

	incoming := validBook(stored.ID, stored.Version)
	incoming.Title = "Go语言实战"
	incoming.Price = 8800

	result, err := svc.EditBook(context.Background(), stored.ID, incoming, nil, "old.png")
	if err != nil {
		t.Fatalf("编辑失败: %v", err)
	}
	if result.Book.Version != stored.Version+1 {
		t.Errorf("版本号应递增为%d，实际%d", stored.Version+1, result.Book.Version)
	}

	got := repo.books[stored.ID]
	if got.Title != "Go语言实战" || got.Price != 8800 || got.Image != "old.png" {
		t.Errorf("记录未正确更新: %+v", got)
	}
}

// TestEditBook_ConflictStillExists 版本未命中但记录仍存在：致命冲突，不重试不合并
func TestEditBook_ConflictStillExists(t *testing.T) {
	repo := newFakeRepo()
	stored := repo.put(validBook(0, 5)) // 他人已把版本推到5
	svc := NewService(repo, &fakeAssets{})

	incoming := validBook(stored.ID, 3) // 基于过期版本提交
	_, err := svc.EditBook(context.Background(), stored.ID, incoming, nil, "")

	if !errors.Is(err, ErrEditConflict) {
		t.Fatalf("期望ErrEditConflict，实际: %v", err)
	}
	if got := repo.books[stored.ID]; got.Version != 5 {
		t.Error("冲突时不应修改记录")
	}
}

// TestEditBook_ConflictDeleted 版本未命中且记录已被删除：按"不存在"报告
func TestEditBook_ConflictDeleted(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeAssets{})

	incoming := validBook(42, 1) // ID=42的记录不存在（已被他人删除）
	_, err := svc.EditBook(context.Background(), 42, incoming, nil, "")

	if !errors.Is(err, ErrBookNotFound) {
		t.Fatalf("期望ErrBookNotFound，实际: %v", err)
	}
}

// TestEditBook_CoverStoreFailed 封面保存失败导致整个编辑失败，不写库
func TestEditBook_CoverStoreFailed(t *testing.T) {
	repo := newFakeRepo()
	stored := repo.put(validBook(0, 1))
	assets := &fakeAssets{storeErr: errors.New("磁盘已满")}
	svc := NewService(repo, assets)

	incoming := validBook(stored.ID, stored.Version)
	incoming.Title = "新标题"
	_, err := svc.EditBook(context.Background(), stored.ID, incoming, newCover(), "old.png")

	if !errors.Is(err, ErrCoverUploadFailed) {
		t.Fatalf("期望ErrCoverUploadFailed，实际: %v", err)
	}
	if got := repo.books[stored.ID]; got.Title != "Go程序设计语言" {
		t.Error("封面保存失败不应写库")
	}
}

// TestEditBook_UpdateFailCompensatesCover 封面已保存但写库失败时补偿删除新封面
func TestEditBook_UpdateFailCompensatesCover(t *testing.T) {
	repo := newFakeRepo()
	stored := repo.put(validBook(0, 1))
	repo.updateErr = errors.New("数据库连接断开")
	assets := &fakeAssets{}
	svc := NewService(repo, assets)

	incoming := validBook(stored.ID, stored.Version)
	_, err := svc.EditBook(context.Background(), stored.ID, incoming, newCover(), "")
	if err == nil {
		t.Fatal("写库失败应返回错误")
	}

	if len(assets.stored) != 1 || len(assets.removed) != 1 {
		t.Fatalf("期望保存1删除1，实际保存%d删除%d", len(assets.stored), len(assets.removed))
	}
	if assets.removed[0] != assets.stored[0] {
		t.Errorf("补偿应删除刚保存的封面%q，实际删除%q", assets.stored[0], assets.removed[0])
	}
}

// ==================== CreateBook ====================

// TestCreateBook_Success 成功创建并回填ID
func TestCreateBook_Success(t *testing.T) {
	repo := newFakeRepo()
	assets := &fakeAssets{}
	svc := NewService(repo, assets)

	incoming := NewBook("Go程序设计语言", "Donovan", 9900, false, 1)
	result, err := svc.CreateBook(context.Background(), incoming, newCover())
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}
	if result.Redisplay() {
		t.Fatalf("不应重显: %v", result.FieldErrors)
	}
	if result.Book.ID == 0 {
		t.Error("应回填数据库分配的ID")
	}
	if result.Book.Image != assets.stored[0] {
		t.Error("封面引用名未写入")
	}
}

// TestCreateBook_ValidationRedisplay 校验失败原样重显，不写库
func TestCreateBook_ValidationRedisplay(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeAssets{})

	incoming := NewBook("", "", -1, false, 0)
	result, err := svc.CreateBook(context.Background(), incoming, nil)
	if err != nil {
		t.Fatalf("校验失败不应返回传输层错误: %v", err)
	}
	if !result.Redisplay() {
		t.Fatal("期望重显结果")
	}
	if len(repo.books) != 0 {
		t.Error("校验失败不应写库")
	}
}

// TestCreateBook_DBFailCompensatesCover 写库失败补偿删除刚保存的封面
func TestCreateBook_DBFailCompensatesCover(t *testing.T) {
	repo := newFakeRepo()
	repo.createErr = errors.New("数据库连接断开")
	assets := &fakeAssets{}
	svc := NewService(repo, assets)

	incoming := NewBook("Go程序设计语言", "Donovan", 9900, false, 1)
	_, err := svc.CreateBook(context.Background(), incoming, newCover())
	if err == nil {
		t.Fatal("写库失败应返回错误")
	}
	if len(assets.removed) != 1 || assets.removed[0] != assets.stored[0] {
		t.Errorf("应补偿删除刚保存的封面: stored=%v removed=%v", assets.stored, assets.removed)
	}
}

// ==================== DeleteBook ====================

// TestDeleteBook_Idempotent 重复删除同一ID两次都成功
func TestDeleteBook_Idempotent(t *testing.T) {
	repo := newFakeRepo()
	stored := repo.put(validBook(0, 1))
	svc := NewService(repo, &fakeAssets{})

	deleted, err := svc.DeleteBook(context.Background(), stored.ID)
	if err != nil || !deleted {
		t.Fatalf("第一次删除应成功且真正删除行: deleted=%v err=%v", deleted, err)
	}

	deleted, err = svc.DeleteBook(context.Background(), stored.ID)
	if err != nil {
		t.Fatalf("第二次删除应幂等成功: %v", err)
	}
	if deleted {
		t.Error("第二次删除不应报告真正删除了行")
	}
}
