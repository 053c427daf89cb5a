package ctx

import (
	"github.com/valyala/fasthttp"

	dbpkg "statsheet/internal/db"
)

const userKey = "user"

// SetUser attaches the authenticated user to the request.
func SetUser(ctx *fasthttp.RequestCtx, user *dbpkg.User) {
	ctx.SetUserValue(userKey, user)
}

// User returns the authenticated user, if any. Handlers behind
// OptionalAuth must handle (nil, false): anonymous requests carry no
// user value.
func User(ctx *fasthttp.RequestCtx) (*dbpkg.User, bool) {
	v := ctx.UserValue(userKey)
	if v == nil {
		return nil, false
	}
	u, ok := v.(*dbpkg.User)
	return u, ok && u != nil
}
