package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Маршрут для запросов, не совпавших ни с одним шаблоном gin
const unmatchedRoute = "unmatched"

// PrometheusMiddleware считает HTTP-запросы API по шаблону маршрута и коду ответа
type PrometheusMiddleware struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inflight prometheus.Gauge
	gatherer prometheus.Gatherer
}

// NewPrometheusMiddleware регистрирует метрики в reg (nil — глобальный реестр).
// Если reg — отдельный prometheus.Registry, /metrics отдаёт и его, и глобальный реестр.
func NewPrometheusMiddleware(namespace string, reg prometheus.Registerer) *PrometheusMiddleware {
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	} else if g, ok := reg.(prometheus.Gatherer); ok && reg != prometheus.DefaultRegisterer {
		gatherer = prometheus.Gatherers{prometheus.DefaultGatherer, g}
	}

	labels := []string{"method", "route", "code"}
	pm := &PrometheusMiddleware{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Обработанные запросы API.",
		}, labels),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Длительность запросов API, включая ожидание тика симуляции.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, labels),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_inflight",
			Help:      "Запросы в обработке.",
		}),
		gatherer: gatherer,
	}
	reg.MustRegister(pm.requests, pm.duration, pm.inflight)
	return pm
}

// Handler возвращает middleware для router.Use
func (pm *PrometheusMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		pm.inflight.Inc()
		defer pm.inflight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		code := strconv.Itoa(c.Writer.Status())
		pm.requests.WithLabelValues(c.Request.Method, route, code).Inc()
		pm.duration.WithLabelValues(c.Request.Method, route, code).Observe(time.Since(start).Seconds())
	}
}

// RegisterMetricsEndpoint добавляет GET /metrics
func (pm *PrometheusMiddleware) RegisterMetricsEndpoint(r gin.IRoutes) {
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(pm.gatherer, promhttp.HandlerOpts{})))
}
