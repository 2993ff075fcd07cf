package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/bookstore-admin/internal/domain/book"
	"github.com/xiebiao/bookstore-admin/pkg/metrics"
)

// BookCache 图书详情缓存(Cache-Aside模式)
// 设计说明:
// 1. 详情页是公开接口,读多写少,适合缓存
// 2. 读路径:先查缓存,未命中回源数据库后写回
// 3. 写路径(编辑/删除)直接删除缓存,下次读取时重建,
//    不做双写(双写在并发下会留下过期数据)
// 4. Key设计:book:detail:{id}
type BookCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBookCache 创建图书缓存
func NewBookCache(client *redis.Client, ttl time.Duration) *BookCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &BookCache{client: client, ttl: ttl}
}

func detailKey(id uint) string {
	return fmt.Sprintf("book:detail:%d", id)
}

// GetDetail 读取缓存的图书详情
// 返回(nil, nil)表示缓存未命中;缓存故障按未命中处理,不影响主流程
func (c *BookCache) GetDetail(ctx context.Context, id uint) (*book.BookDetail, error) {
	data, err := c.client.Get(ctx, detailKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CacheRequestsTotal.WithLabelValues("miss").Inc()
			return nil, nil
		}
		metrics.CacheRequestsTotal.WithLabelValues("error").Inc()
		return nil, nil
	}

	var detail book.BookDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		// 反序列化失败说明缓存内容损坏,删掉让下次读取重建
		metrics.CacheRequestsTotal.WithLabelValues("error").Inc()
		c.client.Del(ctx, detailKey(id))
		return nil, nil
	}

	metrics.CacheRequestsTotal.WithLabelValues("hit").Inc()
	return &detail, nil
}

// SetDetail 写入图书详情缓存
func (c *BookCache) SetDetail(ctx context.Context, detail *book.BookDetail) error {
	data, err := json.Marshal(detail)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, detailKey(detail.ID), data, c.ttl).Err()
}

// Invalidate 删除图书详情缓存(编辑/删除后调用)
func (c *BookCache) Invalidate(ctx context.Context, id uint) error {
	return c.client.Del(ctx, detailKey(id)).Err()
}
