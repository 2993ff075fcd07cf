// Package tracing 提供基于OpenTelemetry的分布式追踪
//
// 核心概念：
// - Trace（追踪）：一个完整的请求链路，由TraceID标识
// - Span（跨度）：一个操作单元（如"EditBook"、"mysql.update"）
// - SpanContext：跨服务传递的元数据（TraceID/SpanID/ParentSpanID）
//
// 本项目用法：HTTP中间件为每个后台请求创建根Span，编辑/创建用例内
// 对数据库写入、封面上传等耗时步骤创建子Span，导出到Jaeger（OTLP gRPC）。
package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// tracerName 全局Tracer名称
const tracerName = "bookstore-admin"

// InitTracer 初始化全局Tracer Provider
//
// 参数：
//   - serviceName: 服务名称（在Jaeger UI中显示）
//   - endpoint: OTLP gRPC端点（如 localhost:4317）
//
// 返回：
//   - shutdown: 关闭函数（程序退出时调用，确保数据刷新）
//
// 设计要点：
// 1. 使用OTLP协议而非Jaeger原生协议（厂商中立，可切换Zipkin、Datadog）
// 2. 采样策略：开发环境AlwaysSample；生产环境建议TraceIDRatioBased（如1%）
// 3. BatchSpanProcessor批量发送Span（性能优于SimpleSpanProcessor）
func InitTracer(serviceName, endpoint string) (func(context.Context) error, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 1. 创建OTLP gRPC Exporter
	exporter, err := otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(), // 禁用TLS（生产环境应启用）
	)
	if err != nil {
		return nil, fmt.Errorf("创建OTLP exporter失败: %w", err)
	}

	// 2. 创建Resource（资源属性，附加到所有Span上）
	res, err := resource.New(
		ctx,
		resource.WithAttributes(
			// service.name是必需属性，用于在Jaeger UI中标识服务
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("创建资源属性失败: %w", err)
	}

	// 3. 创建Tracer Provider
	tp := sdktrace.NewTracerProvider(
		// 采样策略：AlwaysSample表示100%采样
		// 生产环境建议：sdktrace.WithSampler(sdktrace.TraceIDRatioBased(0.01))
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	// 4. 设置全局TracerProvider与传播器
	// 全局Provider让业务代码直接用otel.Tracer()获取，无需层层传递
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, // W3C traceparent头
		propagation.Baggage{},
	))

	return tp.Shutdown, nil
}

// StartSpan 创建一个Span（便捷函数）
//
// 示例：
//
//	ctx, span := tracing.StartSpan(ctx, "EditBook")
//	defer span.End()
func StartSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name)
}
