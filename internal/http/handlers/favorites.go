package handlers

import (
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dbpkg "statsheet/internal/db"
)

// FavoriteResponse echoes a single favorite mutation.
type FavoriteResponse struct {
	SignupID   string `json:"signup_id"`
	IsFavorite bool   `json:"is_favorite"`
}

// FavoritesList is the GET /v1/favorites payload.
type FavoritesList struct {
	Favorites []string `json:"favorites"`
}

// ListFavorites serves GET /v1/favorites: the signup IDs the user has
// starred, newest first.
func ListFavorites(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}

		var ids []string
		if err := db.Model(&dbpkg.Favorite{}).
			Where("user_id = ?", user.ID).
			Order("created_at DESC").
			Pluck("signup_id", &ids).Error; err != nil {
			errDetail(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}

		if ids == nil {
			ids = []string{}
		}
		jsonResponse(ctx, fasthttp.StatusOK, FavoritesList{Favorites: ids})
	}
}

// AddFavorite serves POST /v1/favorites/{signup_id}. Idempotent:
// favoriting twice succeeds without a duplicate row.
func AddFavorite(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}
		signupID, ok := signupIDParam(ctx)
		if !ok {
			return
		}

		// Upsert so two concurrent adds both succeed instead of one
		// losing to the unique index.
		fav := &dbpkg.Favorite{UserID: user.ID, SignupID: signupID}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(fav).Error; err != nil {
			errDetail(ctx, fasthttp.StatusInternalServerError, "failed to add favorite")
			return
		}

		jsonResponse(ctx, fasthttp.StatusOK, FavoriteResponse{SignupID: signupID, IsFavorite: true})
	}
}

// RemoveFavorite serves DELETE /v1/favorites/{signup_id}. Removing a
// non-favorite is a no-op that still reports is_favorite false.
func RemoveFavorite(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}
		signupID, ok := signupIDParam(ctx)
		if !ok {
			return
		}

		if err := db.Where("user_id = ? AND signup_id = ?", user.ID, signupID).
			Delete(&dbpkg.Favorite{}).Error; err != nil {
			errDetail(ctx, fasthttp.StatusInternalServerError, "failed to remove favorite")
			return
		}

		jsonResponse(ctx, fasthttp.StatusOK, FavoriteResponse{SignupID: signupID, IsFavorite: false})
	}
}

func signupIDParam(ctx *fasthttp.RequestCtx) (string, bool) {
	id, _ := ctx.UserValue("signup_id").(string)
	if id == "" {
		errDetail(ctx, fasthttp.StatusBadRequest, "Missing signup_id")
		return "", false
	}
	return id, true
}
