package handlers

import (
	"context"

	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	"statsheet/internal/cache"
	dbpkg "statsheet/internal/db"
	httpctx "statsheet/internal/http/ctx"
)

// Public card endpoints return the first page of the current season
// with fixed filters and no authentication. They read the live tables
// (they show exactly what a logged-in premium user would see on page
// one) and are the only endpoints fronted by the Redis cache.
const (
	publicSeasonID = 53
	publicLeagueID = 37
	publicGameType = 1
	publicPageSize = 24
	publicPosGroup = "C"
)

// cached wraps a handler with a byte-level Redis cache keyed by path.
// A nil cache passes straight through. Signed-in callers (recognized
// by OptionalAuth upstream) always read the database so the shared
// anonymous cache never delays what they see.
func cached(c *cache.Cache, key string, next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if _, signedIn := httpctx.User(ctx); signedIn {
			next(ctx)
			return
		}
		if body, ok := c.Get(context.Background(), key); ok {
			ctx.SetStatusCode(fasthttp.StatusOK)
			ctx.SetContentType("application/json")
			ctx.SetBody(body)
			return
		}
		next(ctx)
		if ctx.Response.StatusCode() == fasthttp.StatusOK {
			body := make([]byte, len(ctx.Response.Body()))
			copy(body, ctx.Response.Body())
			c.Set(context.Background(), key, body)
		}
	}
}

// PublicPlayerCards serves GET /v1/public/cards/player: the first 24
// Centers of the current NHL season.
func PublicPlayerCards(db *gorm.DB, c *cache.Cache) fasthttp.RequestHandler {
	return cached(c, "public:cards:player", func(ctx *fasthttp.RequestCtx) {
		base := func() *gorm.DB {
			return db.Table("players_page").
				Where("season_id = ? AND league_id = ? AND game_type_id = ? AND pos_group = ?",
					publicSeasonID, publicLeagueID, publicGameType, publicPosGroup)
		}

		var total int64
		if err := base().Count(&total).Error; err != nil {
			errDetail(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}

		var rows []dbpkg.PlayerCard
		if err := base().Limit(publicPageSize).Find(&rows).Error; err != nil {
			errDetail(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}

		cards := make([]CardData, 0, len(rows))
		for _, row := range rows {
			cards = append(cards, playerCardData(row))
		}
		updated := na
		if len(rows) > 0 {
			updated = formatLastUpdated(rows[len(rows)-1].LastUpdated)
		}
		jsonResponse(ctx, fasthttp.StatusOK, publicPage(cards, total, updated))
	})
}

// PublicGoalieCards serves GET /v1/public/cards/goalie.
func PublicGoalieCards(db *gorm.DB, c *cache.Cache) fasthttp.RequestHandler {
	return cached(c, "public:cards:goalie", func(ctx *fasthttp.RequestCtx) {
		base := func() *gorm.DB {
			return db.Table("goalies_page").
				Where("season_id = ? AND league_id = ? AND game_type_id = ?",
					publicSeasonID, publicLeagueID, publicGameType)
		}

		var total int64
		if err := base().Count(&total).Error; err != nil {
			errDetail(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}

		var rows []dbpkg.GoalieCard
		if err := base().Limit(publicPageSize).Find(&rows).Error; err != nil {
			errDetail(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}

		cards := make([]CardData, 0, len(rows))
		for _, row := range rows {
			cards = append(cards, goalieCardData(row))
		}
		updated := na
		if len(rows) > 0 {
			updated = formatLastUpdated(rows[len(rows)-1].LastUpdated)
		}
		jsonResponse(ctx, fasthttp.StatusOK, publicPage(cards, total, updated))
	})
}

// PublicTeamCards serves GET /v1/public/cards/team.
func PublicTeamCards(db *gorm.DB, c *cache.Cache) fasthttp.RequestHandler {
	return cached(c, "public:cards:team", func(ctx *fasthttp.RequestCtx) {
		base := func() *gorm.DB {
			return db.Table("teams_page").
				Where("season_id = ? AND league_id = ? AND game_type_id = ?",
					publicSeasonID, publicLeagueID, publicGameType)
		}

		var total int64
		if err := base().Count(&total).Error; err != nil {
			errDetail(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}

		var rows []dbpkg.TeamCard
		if err := base().Limit(publicPageSize).Find(&rows).Error; err != nil {
			errDetail(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}

		cards := make([]CardData, 0, len(rows))
		for _, row := range rows {
			cards = append(cards, teamCardData(row))
		}
		updated := na
		if len(rows) > 0 {
			updated = formatLastUpdated(rows[len(rows)-1].LastUpdated)
		}
		jsonResponse(ctx, fasthttp.StatusOK, publicPage(cards, total, updated))
	})
}

func publicPage(cards []CardData, total int64, updated string) PageResponse {
	return PageResponse{
		Data:        cards,
		PageNumber:  1,
		PageSize:    publicPageSize,
		Total:       total,
		TotalPages:  totalPages(total, publicPageSize),
		LastUpdated: updated,
	}
}
