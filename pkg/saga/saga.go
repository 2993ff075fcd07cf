// Package saga 实现带补偿的多步操作编排
//
// 核心思想：
// 1. 将一个跨资源的操作拆分为多个本地短步骤
// 2. 每个步骤有对应的补偿操作
// 3. 如果某步失败，按逆序执行已完成步骤的补偿操作
//
// 本项目的典型场景：新增/编辑图书时"保存封面文件 + 写数据库"跨了两种资源，
// 数据库写入失败时需要把刚存的封面文件删掉，避免留下孤儿文件。
//
// 教学要点：
// - 补偿操作必须幂等（允许重试）
// - 补偿期间数据可能处于中间状态，保证的是最终一致性
package saga

import (
	"context"
	"fmt"
	"time"

	"github.com/xiebiao/bookstore-admin/pkg/metrics"
)

// Step 表示Saga中的一个步骤
//
// 设计要点：
// 1. Action是正向操作（如保存封面文件、插入记录）
// 2. Compensate是补偿操作（如删除刚保存的文件）
// 3. Action和Compensate都可以为nil（最后一步通常无需补偿）
type Step struct {
	Name       string                          // 步骤名称（用于日志和调试）
	Action     func(ctx context.Context) error // 正向操作
	Compensate func(ctx context.Context) error // 补偿操作
}

// Saga 表示一次带补偿的操作序列
type Saga struct {
	steps    []Step        // 所有步骤
	executed []Step        // 已执行的步骤（用于补偿）
	timeout  time.Duration // 整体超时时间
}

// NewSaga 创建一个新的Saga
//
// 参数：
//
//	timeout: 整体超时时间，防止长时间阻塞；<=0表示不限制
//
// 示例：
//
//	sg := saga.NewSaga(30 * time.Second)
//	sg.AddStep("保存封面", storeCover, removeCover)
//	sg.AddStep("写入图书", insertBook, nil)
//	err := sg.Execute(ctx)
func NewSaga(timeout time.Duration) *Saga {
	return &Saga{
		steps:   make([]Step, 0),
		timeout: timeout,
	}
}

// AddStep 添加一个步骤
// 步骤顺序很重要：按添加顺序执行，按逆序补偿
func (s *Saga) AddStep(name string, action, compensate func(ctx context.Context) error) {
	s.steps = append(s.steps, Step{
		Name:       name,
		Action:     action,
		Compensate: compensate,
	})
}

// Execute 执行Saga
//
// 执行流程：
// 1. 按顺序执行每个步骤的Action
// 2. 如果某步失败，触发补偿流程（逆序执行已完成步骤的Compensate）
// 3. 返回导致失败的错误（包含步骤名）
func (s *Saga) Execute(ctx context.Context) error {
	// 创建带超时的Context
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	for i, step := range s.steps {
		select {
		case <-ctx.Done():
			// 超时，触发补偿（使用新Context，避免补偿也超时）
			s.compensate(context.Background())
			metrics.SagaExecutionsTotal.WithLabelValues("timeout").Inc()
			return fmt.Errorf("saga超时: %w", ctx.Err())
		default:
		}

		// 执行正向操作
		if step.Action != nil {
			if err := step.Action(ctx); err != nil {
				s.compensate(context.Background())
				metrics.SagaExecutionsTotal.WithLabelValues("failure").Inc()
				return fmt.Errorf("步骤[%d:%s]执行失败: %w", i, step.Name, err)
			}
		}

		// 记录已执行的步骤（用于补偿）
		s.executed = append(s.executed, step)
	}

	metrics.SagaExecutionsTotal.WithLabelValues("success").Inc()
	return nil
}

// compensate 逆序执行已完成步骤的补偿操作
//
// 为什么逆序？后执行的步骤可能依赖先执行的步骤。
// 即使某个补偿失败，也继续执行剩余补偿（尽最大努力），
// 补偿失败只打印日志，需要人工介入清理。
func (s *Saga) compensate(ctx context.Context) {
	for i := len(s.executed) - 1; i >= 0; i-- {
		step := s.executed[i]

		if step.Compensate != nil {
			metrics.SagaCompensationsTotal.Inc()
			if err := step.Compensate(ctx); err != nil {
				fmt.Printf("⚠️ 补偿失败[步骤:%s]: %v\n", step.Name, err)
			}
		}
	}

	// 清空已执行列表
	s.executed = nil
}
