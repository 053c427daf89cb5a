package handlers

import (
	"bytes"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"
)

// MetricsHandler serves GET /metrics in Prometheus text exposition
// format from the default registry.
func MetricsHandler() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		metricFamilies, err := prometheus.DefaultGatherer.Gather()
		if err != nil {
			ctx.SetStatusCode(fasthttp.StatusInternalServerError)
			ctx.SetBodyString("failed to gather metrics")
			return
		}

		var buf bytes.Buffer
		encoder := expfmt.NewEncoder(&buf, expfmt.FmtText)
		for _, mf := range metricFamilies {
			if err := encoder.Encode(mf); err != nil {
				ctx.SetStatusCode(fasthttp.StatusInternalServerError)
				ctx.SetBodyString("failed to encode metrics")
				return
			}
		}

		ctx.SetContentType(string(expfmt.FmtText))
		ctx.Response.Header.Set("Cache-Control", "no-store")
		ctx.SetBody(buf.Bytes())
	}
}

// Healthz serves GET /healthz, checking DB connectivity.
func Healthz(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			errDetail(ctx, fasthttp.StatusServiceUnavailable, "database unreachable")
			return
		}
		jsonResponse(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
	}
}
