// Package metrics 提供基于Prometheus的指标收集
//
// 核心概念：
// - Counter（计数器）：只增不减的累计值，如HTTP请求总数、图书变更总数
// - Gauge（仪表盘）：可增可减的瞬时值，如正在处理的请求数
// - Histogram（直方图）：观测值分布，自动计算分位数（P50、P90、P99）
//
// 使用方式：
//
//	metrics.InitMetrics()
//	// gin路由上挂 /metrics 端点（promhttp.Handler）
//	metrics.BooksUpdatedTotal.Inc()
//	metrics.HTTPRequestDuration.WithLabelValues("PUT", "/api/v1/books/:id").Observe(0.123)
//
// 命名规范：Counter以_total结尾，Histogram以单位结尾（_seconds、_bytes），
// 标签避免高基数（用method/path/status，不要用book_id）。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// initialized 标记是否已初始化（防止重复注册）
	initialized bool

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数（Counter）
	// 标签：method（GET/POST）、path（/api/v1/books）、status（200/500）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数（Gauge）
	HTTPRequestsInProgress prometheus.Gauge

	// 图书目录业务指标

	// BooksCreatedTotal 图书创建总数（Counter）
	BooksCreatedTotal prometheus.Counter

	// BooksUpdatedTotal 图书编辑成功总数（Counter）
	BooksUpdatedTotal prometheus.Counter

	// BooksDeletedTotal 图书删除总数（Counter）
	// 幂等删除：只统计真正删掉行的那一次
	BooksDeletedTotal prometheus.Counter

	// BookEditConflictsTotal 编辑时的并发写冲突总数（Counter）
	// 标签：outcome（not_found/conflict）
	// not_found表示冲突复查时记录已被删除，conflict表示记录仍在但被改写
	BookEditConflictsTotal *prometheus.CounterVec

	// BookEditRedisplaysTotal 编辑表单校验失败重显总数（Counter）
	BookEditRedisplaysTotal prometheus.Counter

	// 封面上传指标

	// CoverUploadsTotal 封面上传总数（Counter）
	// 标签：result（success/failure）
	CoverUploadsTotal *prometheus.CounterVec

	// CoverUploadBytes 上传封面大小分布（Histogram）
	CoverUploadBytes prometheus.Histogram

	// 缓存指标

	// CacheRequestsTotal 图书详情缓存请求总数（Counter）
	// 标签：result（hit/miss/error）
	CacheRequestsTotal *prometheus.CounterVec

	// 熔断器指标

	// CircuitBreakerState 熔断器状态（Gauge）
	// 0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数（Counter）
	// 标签：name（熔断器名称）、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec

	// Saga指标

	// SagaExecutionsTotal Saga执行总数（Counter）
	// 标签：result（success/failure/timeout）
	SagaExecutionsTotal *prometheus.CounterVec

	// SagaCompensationsTotal Saga补偿执行总数（Counter）
	SagaCompensationsTotal prometheus.Counter

	// 消息队列指标

	// MessagesPublishedTotal 消息发布总数（Counter）
	// 标签：exchange（交换机）、routing_key（路由键）
	MessagesPublishedTotal *prometheus.CounterVec

	// MessagesConsumedTotal 消息消费总数（Counter）
	// 标签：queue（队列名称）、result（success/failure）
	MessagesConsumedTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标
//
// 必须在程序启动时调用一次，用于注册所有指标到全局Registry
//
// 设计要点：
// 1. 使用promauto.New*自动注册到默认Registry
// 2. Counter使用*Vec支持标签（多维度统计）
// 3. Histogram的Buckets根据业务场景定制
func InitMetrics() {
	// 防止重复初始化
	if initialized {
		return
	}
	initialized = true

	// HTTP请求指标
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP请求耗时（秒）",
			// 桶设置：1ms、10ms、100ms、500ms、1s、5s、10s
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	// 图书目录业务指标
	BooksCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "books_created_total",
			Help: "图书创建总数",
		},
	)

	BooksUpdatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "books_updated_total",
			Help: "图书编辑成功总数",
		},
	)

	BooksDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "books_deleted_total",
			Help: "图书删除总数（只统计真正删除行的请求）",
		},
	)

	BookEditConflictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "book_edit_conflicts_total",
			Help: "图书编辑并发写冲突总数",
		},
		[]string{"outcome"}, // not_found / conflict
	)

	BookEditRedisplaysTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "book_edit_redisplays_total",
			Help: "图书编辑表单校验失败重显总数",
		},
	)

	// 封面上传指标
	CoverUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cover_uploads_total",
			Help: "封面上传总数",
		},
		[]string{"result"},
	)

	CoverUploadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "cover_upload_bytes",
			Help: "上传封面大小（字节）",
			// 桶设置：10KB、100KB、512KB、1MB、5MB、10MB
			Buckets: []float64{10 * 1024, 100 * 1024, 512 * 1024, 1 << 20, 5 << 20, 10 << 20},
		},
	)

	// 缓存指标
	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "book_cache_requests_total",
			Help: "图书详情缓存请求总数",
		},
		[]string{"result"}, // hit / miss / error
	)

	// 熔断器指标
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"},
	)

	// Saga指标
	SagaExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saga_executions_total",
			Help: "Saga执行总数",
		},
		[]string{"result"},
	)

	SagaCompensationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "saga_compensations_total",
			Help: "Saga补偿执行总数",
		},
	)

	// 消息队列指标
	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key"},
	)

	MessagesConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_consumed_total",
			Help: "消息消费总数",
		},
		[]string{"queue", "result"},
	)
}
