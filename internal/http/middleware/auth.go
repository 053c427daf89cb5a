package middleware

import (
	"strings"

	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	dbpkg "statsheet/internal/db"
	httpctx "statsheet/internal/http/ctx"
)

const (
	// SessionCookie carries the opaque session token set at login.
	SessionCookie = "session_token"
	// APIKeyHeader is the programmatic-access alternative to cookies.
	APIKeyHeader = "X-API-Key"
)

// authenticate resolves the request's user. API key takes precedence
// over the session cookie, mirroring how integrations are expected to
// call the API without a browser session.
func authenticate(ctx *fasthttp.RequestCtx, db *gorm.DB) (*dbpkg.User, bool) {
	if key := strings.TrimSpace(string(ctx.Request.Header.Peek(APIKeyHeader))); key != "" {
		var user dbpkg.User
		err := db.Where("api_key = ? AND is_active = ?", key, true).First(&user).Error
		if err == nil {
			return &user, true
		}
	}

	if token := string(ctx.Request.Header.Cookie(SessionCookie)); token != "" {
		user, err := dbpkg.SessionUser(db, token)
		if err == nil && user.IsActive {
			return user, true
		}
	}

	return nil, false
}

// RequireAuth rejects requests without a valid session or API key.
func RequireAuth(db *gorm.DB) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			user, ok := authenticate(ctx, db)
			if !ok {
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				ctx.SetContentType("application/json")
				ctx.SetBodyString(`{"detail":"Invalid or missing authentication credentials"}`)
				return
			}
			httpctx.SetUser(ctx, user)
			next(ctx)
		}
	}
}

// OptionalAuth loads the user when credentials are present and serves
// the request either way. Unauthenticated callers get free-tier data.
func OptionalAuth(db *gorm.DB) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			if user, ok := authenticate(ctx, db); ok {
				httpctx.SetUser(ctx, user)
			}
			next(ctx)
		}
	}
}
