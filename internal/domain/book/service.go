package book

import (
	"context"
	"errors"
	"time"

	"github.com/xiebiao/bookstore-admin/pkg/saga"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 领域服务封装"编辑一条带唯一键的记录+并发修改检测"的完整协议,
//    从调用方视角把身份校验、封面替换、冲突归类当作一个原子关注点
// 2. 不依赖具体的Repository/AssetStore实现(依赖倒置)
// 3. 服务自身不做任何加锁,不持有跨调用状态:并发正确性完全依赖
//    Store的乐观锁冲突检测,不同记录的编辑完全并行
type Service interface {
	// CreateBook 创建图书
	// 校验失败时返回重显结果(FieldErrors非空),不写库、不报传输层错误;
	// cover非nil时先保存封面再写库,写库失败会补偿删除刚保存的封面
	CreateBook(ctx context.Context, incoming *Book, cover *Upload) (*Result, error)

	// EditBook 编辑图书(核心协议)
	// 流程:
	// 1. requestedID必须等于incoming.ID,不一致按"不存在"处理,不发生任何写入
	// 2. 字段校验失败则原样返回提交内容供重显,不写库
	// 3. cover非nil时保存新封面并写入Image;否则Image原样携带调用方
	//    回传的currentImage(隐藏字段回显值,不重读Store——表单数据
	//    过期时可能覆盖他人刚设置的封面,这是已知的设计取舍)
	// 4. Update遇到并发冲突时复查存在性:已删除→ErrBookNotFound;
	//    仍存在→ErrEditConflict(致命,不自动重试、不合并)
	// 任何状态都不会自动重试,调用方重新提交即从头开始
	EditBook(ctx context.Context, requestedID uint, incoming *Book, cover *Upload, currentImage string) (*Result, error)

	// GetBook 根据ID获取图书详情(含分类名称)
	GetBook(ctx context.Context, id uint) (*BookDetail, error)

	// ListBooks 查询全部图书,按作者、书名排序
	ListBooks(ctx context.Context) ([]*BookDetail, error)

	// DeleteBook 删除图书(幂等:重复删除同一ID两次都算成功)
	// 返回值表示本次是否真正删除了行
	DeleteBook(ctx context.Context, id uint) (bool, error)
}

// Result 创建/编辑操作的结果
// FieldErrors非空表示校验失败:Book是原样回显的提交内容,未发生任何写入;
// FieldErrors为空表示成功:Book是已持久化的实体(ID/Version已回填)
type Result struct {
	Book        *Book
	FieldErrors []FieldError
}

// Redisplay 是否需要重显表单
func (r *Result) Redisplay() bool {
	return len(r.FieldErrors) > 0
}

// 写路径的整体超时(封面落盘+数据库写入)
const mutationTimeout = 30 * time.Second

// service 领域服务实现
type service struct {
	repo   Repository
	assets AssetStore
}

// NewService 创建图书领域服务
func NewService(repo Repository, assets AssetStore) Service {
	return &service{repo: repo, assets: assets}
}

// CreateBook 创建图书
func (s *service) CreateBook(ctx context.Context, incoming *Book, cover *Upload) (*Result, error) {
	// 1. 字段校验,失败则重显
	if errs := incoming.Validate(); len(errs) > 0 {
		return &Result{Book: incoming, FieldErrors: errs}, nil
	}

	// 2. 保存封面+写库,跨文件系统和数据库两种资源,用Saga保证失败时
	//    把刚保存的封面删掉(不留孤儿文件)
	sg := saga.NewSaga(mutationTimeout)

	if cover != nil {
		var storedRef string
		sg.AddStep("保存封面",
			func(ctx context.Context) error {
				ref, err := s.assets.Store(ctx, cover.Content, cover.Name)
				if err != nil {
					return ErrCoverUploadFailed
				}
				storedRef = ref
				incoming.Image = ref
				return nil
			},
			func(ctx context.Context) error {
				return s.assets.Remove(ctx, storedRef)
			})
	}

	sg.AddStep("写入图书",
		func(ctx context.Context) error {
			return s.repo.Create(ctx, incoming)
		},
		nil)

	if err := sg.Execute(ctx); err != nil {
		return nil, err
	}

	return &Result{Book: incoming}, nil
}

// EditBook 编辑图书
func (s *service) EditBook(ctx context.Context, requestedID uint, incoming *Book, cover *Upload, currentImage string) (*Result, error) {
	// 1. 身份校验:路由ID与提交ID必须一致
	if requestedID != incoming.ID {
		return nil, ErrIdentityMismatch
	}

	// 2. 字段校验,失败则原样重显,不发生任何写入
	if errs := incoming.Validate(); len(errs) > 0 {
		return &Result{Book: incoming, FieldErrors: errs}, nil
	}

	// 3. 封面处理+更新
	sg := saga.NewSaga(mutationTimeout)

	if cover != nil {
		// 上传了新封面:保存后写入引用名
		// 旧封面文件不删除(孤儿文件的回收不在本流程范围内)
		var storedRef string
		sg.AddStep("保存封面",
			func(ctx context.Context) error {
				ref, err := s.assets.Store(ctx, cover.Content, cover.Name)
				if err != nil {
					return ErrCoverUploadFailed
				}
				storedRef = ref
				incoming.Image = ref
				return nil
			},
			func(ctx context.Context) error {
				return s.assets.Remove(ctx, storedRef)
			})
	} else {
		// 没有新封面:原样携带调用方回传的当前引用名,不重读Store
		incoming.Image = currentImage
	}

	sg.AddStep("更新图书",
		func(ctx context.Context) error {
			err := s.repo.Update(ctx, incoming)
			if err == nil {
				return nil
			}

			// 并发冲突:复查存在性,归类为"已删除"或"未解决的写冲突"
			if errors.Is(err, ErrConcurrentModified) {
				exists, exErr := s.repo.Exists(ctx, requestedID)
				if exErr != nil {
					return exErr
				}
				if !exists {
					return ErrBookNotFound
				}
				return ErrEditConflict
			}

			return err
		},
		nil)

	if err := sg.Execute(ctx); err != nil {
		return nil, err
	}

	return &Result{Book: incoming}, nil
}

// GetBook 根据ID获取图书详情
func (s *service) GetBook(ctx context.Context, id uint) (*BookDetail, error) {
	return s.repo.FindDetail(ctx, id)
}

// ListBooks 查询全部图书
func (s *service) ListBooks(ctx context.Context) ([]*BookDetail, error) {
	return s.repo.List(ctx)
}

// DeleteBook 删除图书(幂等)
func (s *service) DeleteBook(ctx context.Context, id uint) (bool, error) {
	return s.repo.Delete(ctx, id)
}
