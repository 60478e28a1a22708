package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mazraa/mazraa-metrics/internal/common/logger"
	"github.com/mazraa/mazraa-metrics/internal/common/metrics"
)

// newEcho 创建带统一中间件的 echo 实例：
// 请求 ID（uuid）、panic 恢复、CORS、链路追踪、访问日志、Prometheus。
// /healthz 与 /metrics 为固定路由，业务路由由调用方注册。
func newEcho(serviceName string, log logger.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(httpTracingMiddleware(serviceName))
	e.Use(accessLogMiddleware(log))
	e.Use(httpMetricsMiddleware())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}

// accessLogMiddleware 记录每个 HTTP 请求的耗时/状态。
func accessLogMiddleware(log logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if log == nil {
				return err
			}

			fields := map[string]interface{}{
				"method":     c.Request().Method,
				"path":       c.Path(),
				"status":     c.Response().Status,
				"cost":       time.Since(start).String(),
				"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
			}
			if err != nil {
				fields["error"] = err.Error()
				log.WithFields(fields).Warn("http request failed")
			} else {
				log.WithFields(fields).Debug("http request ok")
			}
			return err
		}
	}
}

// httpMetricsMiddleware 按路由模板统计请求量与耗时。
func httpMetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			handler := c.Path()
			method := c.Request().Method
			metrics.HTTPRequestDuration.WithLabelValues(handler, method).
				Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.WithLabelValues(handler, method,
				strconv.Itoa(c.Response().Status)).Inc()
			return err
		}
	}
}

// httpTracingMiddleware 从请求头提取上游 span，创建 server span 并注入请求 ctx。
func httpTracingMiddleware(serviceName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tracer := opentracing.GlobalTracer()
			req := c.Request()

			var span opentracing.Span
			if parent, err := tracer.Extract(opentracing.HTTPHeaders,
				opentracing.HTTPHeadersCarrier(req.Header)); err == nil {
				span = tracer.StartSpan(c.Path(), ext.RPCServerOption(parent))
			} else {
				span = tracer.StartSpan(c.Path())
			}
			defer span.Finish()

			ext.SpanKindRPCServer.Set(span)
			ext.HTTPMethod.Set(span, req.Method)
			ext.Component.Set(span, "http")
			if serviceName != "" {
				span.SetTag("service", serviceName)
			}

			c.SetRequest(req.WithContext(opentracing.ContextWithSpan(req.Context(), span)))
			err := next(c)
			if err != nil {
				ext.Error.Set(span, true)
			}
			ext.HTTPStatusCode.Set(span, uint16(c.Response().Status))
			return err
		}
	}
}
