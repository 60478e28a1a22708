package metrics

import "github.com/prometheus/client_golang/prometheus"

// 服务自身的 Prometheus 指标：仪表盘编排与信誉重算两条链路。
var (
	ComposeTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dashboard_compose_total",
		Help: "Total number of successful dashboard compositions",
	})

	ComposeFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dashboard_compose_failures_total",
		Help: "Total number of dashboard compositions aborted by fetch failures",
	})

	ComposeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dashboard_compose_duration_seconds",
		Help:    "Duration of dashboard composition (fetch + compute)",
		Buckets: prometheus.DefBuckets,
	})

	RecalcTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reliability_recalc_total",
		Help: "Total number of successful customer reliability recalculations",
	})

	RecalcFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reliability_recalc_failures_total",
		Help: "Total number of failed customer reliability recalculations",
	})

	RecalcDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "reliability_recalc_duration_seconds",
		Help:    "Duration of one customer reliability recalculation",
		Buckets: prometheus.DefBuckets,
	})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"handler", "method", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"handler", "method"})
)

// Register 注册全部指标。只在进程启动时调用一次。
func Register() {
	prometheus.MustRegister(
		ComposeTotal,
		ComposeFailuresTotal,
		ComposeDuration,
		RecalcTotal,
		RecalcFailuresTotal,
		RecalcDuration,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}
