package handlers

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	dbpkg "statsheet/internal/db"
	httpctx "statsheet/internal/http/ctx"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := dbpkg.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

// newGetCtx builds a request context for a GET with the given URI,
// optionally authenticated as user.
func newGetCtx(uri string, user *dbpkg.User) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(fasthttp.MethodGet)
	ctx.Request.SetRequestURI(uri)
	if user != nil {
		httpctx.SetUser(ctx, user)
	}
	return ctx
}

func premiumUser() *dbpkg.User {
	return &dbpkg.User{
		Email:              "premium@example.com",
		IsActive:           true,
		SubscriptionTier:   dbpkg.TierSubscriber,
		SubscriptionStatus: dbpkg.StatusActive,
	}
}

func freeUser() *dbpkg.User {
	return &dbpkg.User{
		Email:            "free@example.com",
		IsActive:         true,
		SubscriptionTier: dbpkg.TierFree,
	}
}

func decodeBody(t *testing.T, ctx *fasthttp.RequestCtx, v any) {
	t.Helper()
	if err := json.Unmarshal(ctx.Response.Body(), v); err != nil {
		t.Fatalf("decode response %q: %v", ctx.Response.Body(), err)
	}
}

// pageEnvelope mirrors PageResponse with data left raw for
// per-endpoint decoding.
type pageEnvelope struct {
	Data        json.RawMessage `json:"data"`
	PageNumber  int             `json:"pageNumber"`
	PageSize    int             `json:"pageSize"`
	Total       int64           `json:"total"`
	TotalPages  int             `json:"totalPages"`
	LastUpdated string          `json:"lastUpdated"`
}

func decodePage(t *testing.T, ctx *fasthttp.RequestCtx) pageEnvelope {
	t.Helper()
	var env pageEnvelope
	decodeBody(t, ctx, &env)
	return env
}

func assertStatus(t *testing.T, ctx *fasthttp.RequestCtx, want int) {
	t.Helper()
	if got := ctx.Response.StatusCode(); got != want {
		t.Fatalf("status = %d, want %d (body %q)", got, want, ctx.Response.Body())
	}
}

func sptr(s string) *string { return &s }

func f64ptr(f float64) *float64 { return &f }

func i64ptr(i int64) *int64 { return &i }

func iptr(i int) *int { return &i }
