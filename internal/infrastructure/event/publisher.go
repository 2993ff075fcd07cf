package event

import (
	"context"
	"log"
	"time"

	"github.com/xiebiao/bookstore-admin/internal/domain/book"
	"github.com/xiebiao/bookstore-admin/pkg/circuitbreaker"
	"github.com/xiebiao/bookstore-admin/pkg/metrics"
	"github.com/xiebiao/bookstore-admin/pkg/mq"
)

// 目录变更事件的路由键(topic交换机)
const (
	RoutingKeyBookCreated = "catalog.book.created"
	RoutingKeyBookUpdated = "catalog.book.updated"
	RoutingKeyBookDeleted = "catalog.book.deleted"
)

// BookEvent 目录变更事件载荷
type BookEvent struct {
	BookID     uint      `json:"book_id"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	Price      int64     `json:"price"`
	CategoryID uint      `json:"category_id"`
	Version    int       `json:"version"`
	OccurredAt time.Time `json:"occurred_at"`
}

// CatalogEvents 目录变更事件发布接口
// 设计说明:
// 1. 事件是尽力而为的旁路通知(审计日志、下游同步),发布失败
//    只记日志不影响写操作本身的结果
// 2. MQ不可用时熔断器快速失败,避免每次写操作都等待连接超时
type CatalogEvents interface {
	BookCreated(ctx context.Context, b *book.Book)
	BookUpdated(ctx context.Context, b *book.Book)
	BookDeleted(ctx context.Context, id uint)
}

// publisher RabbitMQ事件发布器(带熔断保护)
type publisher struct {
	mq *mq.Publisher
	cb *circuitbreaker.CircuitBreaker
}

// NewPublisher 创建目录事件发布器
func NewPublisher(url, exchange string) (CatalogEvents, error) {
	p, err := mq.NewPublisher(url, exchange, "topic")
	if err != nil {
		return nil, err
	}

	cb := circuitbreaker.NewCircuitBreaker("catalog-events", circuitbreaker.Config{
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	cb.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		log.Printf("[事件] 熔断器%s状态变化: %s → %s", name, from, to)
		metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
	})

	return &publisher{mq: p, cb: cb}, nil
}

func (p *publisher) BookCreated(ctx context.Context, b *book.Book) {
	p.publish(RoutingKeyBookCreated, eventFromBook(b))
}

func (p *publisher) BookUpdated(ctx context.Context, b *book.Book) {
	p.publish(RoutingKeyBookUpdated, eventFromBook(b))
}

func (p *publisher) BookDeleted(ctx context.Context, id uint) {
	p.publish(RoutingKeyBookDeleted, &BookEvent{BookID: id, OccurredAt: time.Now()})
}

// publish 经熔断器发布事件,失败只记日志
func (p *publisher) publish(routingKey string, evt *BookEvent) {
	err := p.cb.Execute(func() error {
		return p.mq.Publish(routingKey, evt)
	})
	if err != nil {
		metrics.CircuitBreakerRequests.WithLabelValues("catalog-events", "failure").Inc()
		log.Printf("[事件] 发布%s失败: %v", routingKey, err)
		return
	}
	metrics.CircuitBreakerRequests.WithLabelValues("catalog-events", "success").Inc()
	metrics.MessagesPublishedTotal.WithLabelValues(p.mq.Exchange(), routingKey).Inc()
}

func eventFromBook(b *book.Book) *BookEvent {
	return &BookEvent{
		BookID:     b.ID,
		Title:      b.Title,
		Author:     b.Author,
		Price:      b.Price,
		CategoryID: b.CategoryID,
		Version:    b.Version,
		OccurredAt: time.Now(),
	}
}

// NopPublisher 空实现(mq.enabled=false时使用)
type NopPublisher struct{}

func (NopPublisher) BookCreated(ctx context.Context, b *book.Book) {}
func (NopPublisher) BookUpdated(ctx context.Context, b *book.Book) {}
func (NopPublisher) BookDeleted(ctx context.Context, id uint)      {}
