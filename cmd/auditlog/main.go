package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/xiebiao/bookstore-admin/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-admin/internal/infrastructure/event"
	"github.com/xiebiao/bookstore-admin/pkg/metrics"
	"github.com/xiebiao/bookstore-admin/pkg/mq"
)

// 目录变更审计日志消费者
// 订阅catalog.book.*事件并逐条落日志，用于审计后台的增删改操作。
// 消费失败的消息会requeue，处理逻辑需要保持幂等。
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	if !cfg.MQ.Enabled {
		log.Fatal("审计日志消费者要求启用消息队列(mq.enabled=true)")
	}

	metrics.InitMetrics()

	// 2. 创建消费者：绑定目录变更的全部路由键
	consumer, err := mq.NewConsumer(
		cfg.MQ.URL,
		cfg.MQ.Exchange,
		"topic",
		cfg.MQ.Queue,
		[]string{"catalog.book.*"},
	)
	if err != nil {
		log.Fatalf("创建消费者失败: %v", err)
	}
	defer consumer.Close()

	fmt.Printf("✓ 审计日志消费者启动，队列: %s\n", cfg.MQ.Queue)

	// 3. 监听退出信号
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		fmt.Println("收到退出信号，停止消费...")
		cancel()
	}()

	// 4. 消费循环
	err = consumer.Consume(ctx, func(routingKey string, body []byte) error {
		var evt event.BookEvent
		if err := json.Unmarshal(body, &evt); err != nil {
			// 格式错误的消息requeue也无法恢复，记日志后丢弃
			log.Printf("[审计] 消息格式错误(%s): %v", routingKey, err)
			metrics.MessagesConsumedTotal.WithLabelValues(cfg.MQ.Queue, "failure").Inc()
			return nil
		}

		log.Printf("[审计] %s book_id=%d title=%q version=%d at=%s",
			routingKey, evt.BookID, evt.Title, evt.Version,
			evt.OccurredAt.Format("2006-01-02 15:04:05"))
		metrics.MessagesConsumedTotal.WithLabelValues(cfg.MQ.Queue, "success").Inc()
		return nil
	})
	if err != nil && ctx.Err() == nil {
		log.Fatalf("消费失败: %v", err)
	}
}
