package handlers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/valyala/fasthttp"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"statsheet/internal/config"
	dbpkg "statsheet/internal/db"
	"statsheet/internal/http/middleware"
)

const oauthStateCookie = "oauth_state"

type credentials struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// Register serves POST /v1/auth/register: creates an email/password
// account and signs it in.
func Register(db *gorm.DB, cfg *config.Config) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		var creds credentials
		if err := json.Unmarshal(ctx.PostBody(), &creds); err != nil {
			errDetail(ctx, fasthttp.StatusBadRequest, "Invalid JSON body")
			return
		}
		creds.Email = strings.ToLower(strings.TrimSpace(creds.Email))
		if creds.Email == "" || !strings.Contains(creds.Email, "@") {
			errDetail(ctx, fasthttp.StatusBadRequest, "Invalid email")
			return
		}
		if len(creds.Password) < 8 {
			errDetail(ctx, fasthttp.StatusBadRequest, "Password must be at least 8 characters")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
		if err != nil {
			errDetail(ctx, fasthttp.StatusInternalServerError, "failed to hash password")
			return
		}

		user := &dbpkg.User{
			Email:        creds.Email,
			PasswordHash: string(hash),
			FirstName:    creds.FirstName,
			LastName:     creds.LastName,
			IsActive:     true,
		}
		// Insert-or-nothing on the unique email index: a racing
		// duplicate registration reports the conflict instead of a 500.
		res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(user)
		if res.Error != nil {
			errDetail(ctx, fasthttp.StatusInternalServerError, "failed to create user")
			return
		}
		if res.RowsAffected == 0 {
			errDetail(ctx, fasthttp.StatusBadRequest, "A user with this email already exists")
			return
		}

		if !issueSession(ctx, db, cfg, user) {
			return
		}
		jsonResponse(ctx, fasthttp.StatusCreated, user)
	}
}

// Login serves POST /v1/auth/login with a JSON email/password body.
func Login(db *gorm.DB, cfg *config.Config) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		var creds credentials
		if err := json.Unmarshal(ctx.PostBody(), &creds); err != nil {
			errDetail(ctx, fasthttp.StatusBadRequest, "Invalid JSON body")
			return
		}
		creds.Email = strings.ToLower(strings.TrimSpace(creds.Email))

		var user dbpkg.User
		if err := db.Where("email = ?", creds.Email).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				errDetail(ctx, fasthttp.StatusUnauthorized, "Invalid email or password")
				return
			}
			errDetail(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}
		if !user.IsActive {
			errDetail(ctx, fasthttp.StatusUnauthorized, "Invalid email or password")
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
			errDetail(ctx, fasthttp.StatusUnauthorized, "Invalid email or password")
			return
		}

		if !issueSession(ctx, db, cfg, &user) {
			return
		}
		jsonResponse(ctx, fasthttp.StatusOK, &user)
	}
}

// Logout serves POST /v1/auth/logout: deletes the session row and
// clears the cookie. Safe to call without a session.
func Logout(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if token := string(ctx.Request.Header.Cookie(middleware.SessionCookie)); token != "" {
			_ = dbpkg.DeleteSession(db, token)
		}

		var c fasthttp.Cookie
		c.SetKey(middleware.SessionCookie)
		c.SetValue("")
		c.SetPath("/")
		c.SetHTTPOnly(true)
		c.SetMaxAge(-1)
		ctx.Response.Header.SetCookie(&c)

		jsonResponse(ctx, fasthttp.StatusOK, map[string]string{"message": "Logged out"})
	}
}

// Me serves GET /v1/auth/me.
func Me() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}
		jsonResponse(ctx, fasthttp.StatusOK, user)
	}
}

func googleOAuthConfig(cfg *config.Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}
}

// GoogleLogin serves GET /v1/auth/google/login: stores a random state
// in a short-lived cookie and redirects to Google's consent screen.
func GoogleLogin(cfg *config.Config) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		b := make([]byte, 16)
		if _, err := rand.Read(b); err != nil {
			errDetail(ctx, fasthttp.StatusInternalServerError, "failed to generate state")
			return
		}
		state := base64.URLEncoding.EncodeToString(b)

		var c fasthttp.Cookie
		c.SetKey(oauthStateCookie)
		c.SetValue(state)
		c.SetPath("/")
		c.SetHTTPOnly(true)
		c.SetSecure(cfg.CookieSecure)
		c.SetMaxAge(300)
		ctx.Response.Header.SetCookie(&c)

		ctx.Redirect(googleOAuthConfig(cfg).AuthCodeURL(state), fasthttp.StatusTemporaryRedirect)
	}
}

// googleUserInfo is the subset of Google's userinfo payload we use.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
}

// GoogleCallback serves GET /v1/auth/google/callback: verifies state,
// exchanges the code, upserts the user by Google ID (then by email for
// auto-linking) and redirects back to the frontend with a session set.
func GoogleCallback(db *gorm.DB, cfg *config.Config) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		state := queryStr(ctx, "state")
		if state == "" || state != string(ctx.Request.Header.Cookie(oauthStateCookie)) {
			errDetail(ctx, fasthttp.StatusBadRequest, "Invalid OAuth state")
			return
		}
		code := queryStr(ctx, "code")
		if code == "" {
			errDetail(ctx, fasthttp.StatusBadRequest, "Missing OAuth code")
			return
		}

		oc := googleOAuthConfig(cfg)
		token, err := oc.Exchange(context.Background(), code)
		if err != nil {
			errDetail(ctx, fasthttp.StatusUnauthorized, "OAuth code exchange failed")
			return
		}

		info, err := fetchGoogleUserInfo(oc.Client(context.Background(), token))
		if err != nil {
			errDetail(ctx, fasthttp.StatusBadGateway, "Failed to fetch Google user info")
			return
		}
		if info.Email == "" {
			errDetail(ctx, fasthttp.StatusUnauthorized, "Google account has no email")
			return
		}

		user, err := upsertGoogleUser(db, info)
		if err != nil {
			errDetail(ctx, fasthttp.StatusInternalServerError, "failed to create user")
			return
		}
		if !user.IsActive {
			errDetail(ctx, fasthttp.StatusUnauthorized, "Account is disabled")
			return
		}

		if !issueSession(ctx, db, cfg, user) {
			return
		}
		ctx.Redirect(cfg.FrontendURL, fasthttp.StatusSeeOther)
	}
}

func fetchGoogleUserInfo(client *http.Client) (*googleUserInfo, error) {
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("userinfo request failed")
	}

	var info googleUserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// upsertGoogleUser finds the account for a Google identity, linking by
// email when the Google ID is new, and creating a fresh account when
// neither matches.
func upsertGoogleUser(db *gorm.DB, info *googleUserInfo) (*dbpkg.User, error) {
	email := strings.ToLower(info.Email)

	var user dbpkg.User
	err := db.Where("google_id = ?", info.ID).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = db.Where("email = ?", email).First(&user).Error
	if err == nil {
		updates := map[string]any{"google_id": info.ID}
		if info.VerifiedEmail {
			updates["is_verified"] = true
		}
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = dbpkg.User{
		Email:      email,
		GoogleID:   &info.ID,
		IsActive:   true,
		IsVerified: info.VerifiedEmail,
	}
	if info.GivenName != "" {
		user.FirstName = &info.GivenName
	}
	if info.FamilyName != "" {
		user.LastName = &info.FamilyName
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// issueSession creates a session row and sets the cookie. Sends the
// 500 itself and returns false on failure.
func issueSession(ctx *fasthttp.RequestCtx, db *gorm.DB, cfg *config.Config, user *dbpkg.User) bool {
	token, err := dbpkg.CreateSession(db, user, cfg.SessionTTL)
	if err != nil {
		errDetail(ctx, fasthttp.StatusInternalServerError, "failed to create session")
		return false
	}

	var c fasthttp.Cookie
	c.SetKey(middleware.SessionCookie)
	c.SetValue(token)
	c.SetPath("/")
	c.SetHTTPOnly(true)
	c.SetSecure(cfg.CookieSecure)
	c.SetSameSite(fasthttp.CookieSameSiteLaxMode)
	c.SetMaxAge(int(cfg.SessionTTL.Seconds()))
	ctx.Response.Header.SetCookie(&c)
	return true
}
