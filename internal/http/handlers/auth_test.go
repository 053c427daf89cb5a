package handlers

import (
	"testing"
	"time"

	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	"statsheet/internal/config"
	dbpkg "statsheet/internal/db"
	"statsheet/internal/http/middleware"
)

func testConfig() *config.Config {
	return &config.Config{SessionTTL: time.Hour, FrontendURL: "http://localhost:3000"}
}

func newPostCtx(uri, body string, user *dbpkg.User) *fasthttp.RequestCtx {
	ctx := newGetCtx(uri, user)
	ctx.Request.Header.SetMethod(fasthttp.MethodPost)
	ctx.Request.SetBodyString(body)
	return ctx
}

func sessionCookie(t *testing.T, ctx *fasthttp.RequestCtx) string {
	t.Helper()
	var c fasthttp.Cookie
	c.SetKey(middleware.SessionCookie)
	if !ctx.Response.Header.Cookie(&c) {
		t.Fatal("no session cookie set")
	}
	return string(c.Value())
}

func TestRegisterCreatesUserAndSession(t *testing.T) {
	gdb := newTestDB(t)
	cfg := testConfig()

	ctx := newPostCtx("/v1/auth/register",
		`{"email":"New@Example.com","password":"hunter2hunter2","first_name":"New"}`, nil)
	Register(gdb, cfg)(ctx)
	assertStatus(t, ctx, fasthttp.StatusCreated)

	token := sessionCookie(t, ctx)
	user, err := dbpkg.SessionUser(gdb, token)
	if err != nil {
		t.Fatalf("session not usable: %v", err)
	}
	if user.Email != "new@example.com" {
		t.Errorf("email = %q, want lowercased", user.Email)
	}
	if user.SubscriptionTier != dbpkg.TierFree {
		t.Errorf("tier = %q, new accounts start free", user.SubscriptionTier)
	}
}

func TestRegisterValidation(t *testing.T) {
	gdb := newTestDB(t)
	cfg := testConfig()

	tests := []struct {
		name string
		body string
	}{
		{"not json", "{"},
		{"missing email", `{"password":"hunter2hunter2"}`},
		{"malformed email", `{"email":"nope","password":"hunter2hunter2"}`},
		{"short password", `{"email":"a@b.com","password":"short"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newPostCtx("/v1/auth/register", tt.body, nil)
			Register(gdb, cfg)(ctx)
			assertStatus(t, ctx, fasthttp.StatusBadRequest)
		})
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	gdb := newTestDB(t)
	cfg := testConfig()

	body := `{"email":"dup@example.com","password":"hunter2hunter2"}`
	ctx := newPostCtx("/v1/auth/register", body, nil)
	Register(gdb, cfg)(ctx)
	assertStatus(t, ctx, fasthttp.StatusCreated)

	ctx = newPostCtx("/v1/auth/register", body, nil)
	Register(gdb, cfg)(ctx)
	assertStatus(t, ctx, fasthttp.StatusBadRequest)
}

func TestLoginAndLogout(t *testing.T) {
	gdb := newTestDB(t)
	cfg := testConfig()

	ctx := newPostCtx("/v1/auth/register", `{"email":"login@example.com","password":"hunter2hunter2"}`, nil)
	Register(gdb, cfg)(ctx)
	assertStatus(t, ctx, fasthttp.StatusCreated)

	t.Run("wrong password", func(t *testing.T) {
		ctx := newPostCtx("/v1/auth/login", `{"email":"login@example.com","password":"wrong"}`, nil)
		Login(gdb, cfg)(ctx)
		assertStatus(t, ctx, fasthttp.StatusUnauthorized)
	})

	t.Run("unknown email", func(t *testing.T) {
		ctx := newPostCtx("/v1/auth/login", `{"email":"nobody@example.com","password":"hunter2hunter2"}`, nil)
		Login(gdb, cfg)(ctx)
		assertStatus(t, ctx, fasthttp.StatusUnauthorized)
	})

	var token string
	t.Run("valid credentials", func(t *testing.T) {
		ctx := newPostCtx("/v1/auth/login", `{"email":"login@example.com","password":"hunter2hunter2"}`, nil)
		Login(gdb, cfg)(ctx)
		assertStatus(t, ctx, fasthttp.StatusOK)
		token = sessionCookie(t, ctx)
	})

	t.Run("logout invalidates the session", func(t *testing.T) {
		ctx := newPostCtx("/v1/auth/logout", "", nil)
		ctx.Request.Header.SetCookie(middleware.SessionCookie, token)
		Logout(gdb)(ctx)
		assertStatus(t, ctx, fasthttp.StatusOK)

		if _, err := dbpkg.SessionUser(gdb, token); err == nil {
			t.Error("session still valid after logout")
		}
	})
}

func TestMe(t *testing.T) {
	ctx := newGetCtx("/v1/auth/me", premiumUser())
	Me()(ctx)
	assertStatus(t, ctx, fasthttp.StatusOK)

	var body map[string]any
	decodeBody(t, ctx, &body)
	if body["email"] != "premium@example.com" {
		t.Errorf("email = %v", body["email"])
	}
	if _, leaked := body["api_key"]; leaked {
		t.Error("api_key must not be serialized")
	}

	ctx = newGetCtx("/v1/auth/me", nil)
	Me()(ctx)
	assertStatus(t, ctx, fasthttp.StatusUnauthorized)
}

func createDBUser(t *testing.T, gdb *gorm.DB, email string) *dbpkg.User {
	t.Helper()
	user := &dbpkg.User{Email: email, IsActive: true}
	if err := gdb.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestAPIKeyGenerateAndRevoke(t *testing.T) {
	gdb := newTestDB(t)
	user := createDBUser(t, gdb, "keys@example.com")

	ctx := newPostCtx("/v1/api-keys/generate", "", user)
	GenerateAPIKey(gdb)(ctx)
	assertStatus(t, ctx, fasthttp.StatusOK)

	var resp APIKeyResponse
	decodeBody(t, ctx, &resp)
	if len(resp.APIKey) < 10 || resp.APIKey[:3] != "sk_" {
		t.Errorf("api key %q missing sk_ prefix", resp.APIKey)
	}

	var stored dbpkg.User
	if err := gdb.First(&stored, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if stored.APIKey == nil || *stored.APIKey != resp.APIKey {
		t.Error("generated key not persisted on the user row")
	}

	ctx = newGetCtx("/v1/api-keys/revoke", user)
	RevokeAPIKey(gdb)(ctx)
	assertStatus(t, ctx, fasthttp.StatusOK)

	if err := gdb.First(&stored, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if stored.APIKey != nil {
		t.Error("key still set after revoke")
	}
}

func TestFavoritesLifecycle(t *testing.T) {
	gdb := newTestDB(t)
	user := createDBUser(t, gdb, "fav@example.com")

	add := func(id string) *fasthttp.RequestCtx {
		ctx := newPostCtx("/v1/favorites/"+id, "", user)
		ctx.SetUserValue("signup_id", id)
		AddFavorite(gdb)(ctx)
		return ctx
	}

	assertStatus(t, add("sg-1"), fasthttp.StatusOK)
	assertStatus(t, add("sg-2"), fasthttp.StatusOK)
	// Idempotent: re-adding must not duplicate.
	assertStatus(t, add("sg-1"), fasthttp.StatusOK)

	ctx := newGetCtx("/v1/favorites", user)
	ListFavorites(gdb)(ctx)
	assertStatus(t, ctx, fasthttp.StatusOK)

	var list FavoritesList
	decodeBody(t, ctx, &list)
	if len(list.Favorites) != 2 {
		t.Fatalf("got %d favorites, want 2", len(list.Favorites))
	}

	ctx = newGetCtx("/v1/favorites/sg-1", user)
	ctx.SetUserValue("signup_id", "sg-1")
	RemoveFavorite(gdb)(ctx)
	assertStatus(t, ctx, fasthttp.StatusOK)

	var resp FavoriteResponse
	decodeBody(t, ctx, &resp)
	if resp.IsFavorite {
		t.Error("is_favorite should be false after removal")
	}

	ctx = newGetCtx("/v1/favorites", user)
	ListFavorites(gdb)(ctx)
	list = FavoritesList{}
	decodeBody(t, ctx, &list)
	if len(list.Favorites) != 1 || list.Favorites[0] != "sg-2" {
		t.Errorf("favorites = %v, want [sg-2]", list.Favorites)
	}
}

func TestAddFavoriteSurvivesExistingRow(t *testing.T) {
	gdb := newTestDB(t)
	user := createDBUser(t, gdb, "race@example.com")

	// Row already present, as when a concurrent add won the insert.
	if err := gdb.Create(&dbpkg.Favorite{UserID: user.ID, SignupID: "sg-9"}).Error; err != nil {
		t.Fatalf("seed favorite: %v", err)
	}

	ctx := newPostCtx("/v1/favorites/sg-9", "", user)
	ctx.SetUserValue("signup_id", "sg-9")
	AddFavorite(gdb)(ctx)
	assertStatus(t, ctx, fasthttp.StatusOK)

	var resp FavoriteResponse
	decodeBody(t, ctx, &resp)
	if !resp.IsFavorite {
		t.Error("is_favorite should stay true")
	}

	var n int64
	gdb.Model(&dbpkg.Favorite{}).Where("user_id = ?", user.ID).Count(&n)
	if n != 1 {
		t.Errorf("favorite rows = %d, want 1", n)
	}
}
