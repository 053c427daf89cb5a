package middleware

import (
	"github.com/valyala/fasthttp"
)

// CORS allows the configured frontend origins to call the API with
// credentials. Preflight responses are cached for an hour.
func CORS(allowedOrigins []string) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			origin := string(ctx.Request.Header.Peek("Origin"))
			if _, ok := allowed[origin]; ok {
				h := &ctx.Response.Header
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, Authorization, X-API-Key")
				h.Set("Access-Control-Max-Age", "3600")
				h.Set("Vary", "Origin")
			}

			if string(ctx.Method()) == fasthttp.MethodOptions {
				ctx.SetStatusCode(fasthttp.StatusNoContent)
				return
			}

			next(ctx)
		}
	}
}
