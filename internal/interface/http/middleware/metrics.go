package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookstore-admin/pkg/metrics"
)

// Metrics HTTP请求指标中间件
// 记录请求总数、耗时分布和正在处理的请求数
// path使用路由模板(如/api/v1/books/:id)避免标签基数爆炸
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.HTTPRequestsInProgress.Inc()

		c.Next()

		metrics.HTTPRequestsInProgress.Dec()

		path := c.FullPath()
		if path == "" {
			path = "unmatched" // 404等未命中路由的请求
		}

		metrics.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		metrics.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			path,
		).Observe(time.Since(start).Seconds())
	}
}
