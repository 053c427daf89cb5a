package middleware

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "statsheet_http_requests_total",
			Help: "Requests served, by method, route and status code.",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "statsheet_http_request_duration_seconds",
			Help:    "Request latency, by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal, requestDuration)
}

// RequestMetrics records per-request counters and latencies. The
// scrape and health endpoints are excluded to keep the series clean.
func RequestMetrics(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		next(ctx)

		path := string(ctx.Path())
		if path == "/metrics" || path == "/healthz" {
			return
		}

		method := string(ctx.Method())
		requestsTotal.WithLabelValues(method, path, strconv.Itoa(ctx.Response.StatusCode())).Inc()
		requestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// RequestLogger logs one line per request at info level.
func RequestLogger(log *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			start := time.Now()
			next(ctx)

			path := string(ctx.Path())
			if path == "/metrics" || path == "/healthz" {
				return
			}

			log.Info("request",
				zap.String("method", string(ctx.Method())),
				zap.String("path", path),
				zap.Int("status", ctx.Response.StatusCode()),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote_ip", ctx.RemoteIP().String()),
			)
		}
	}
}
