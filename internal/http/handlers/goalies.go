package handlers

import (
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	dbpkg "statsheet/internal/db"
)

// Goalie card pages share the stats game types (regular season and
// the combined playoffs view).

// GoalieCards serves GET /v1/goalies/cards: paginated goalie cards.
func GoalieCards(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}
		f, ok := parseStatFilters(ctx, seasonMaxCards, statsGameTypes, false)
		if !ok {
			return
		}
		playerIDs, ok := playerIDFilter(ctx)
		if !ok {
			return
		}
		pageNumber, pageSize, ok := parsePage(ctx, defaultCardPageSize)
		if !ok {
			return
		}

		table := dbpkg.TierTable(user, "goalies_page")
		base := func() *gorm.DB {
			q := db.Table(table).
				Where("season_id = ? AND league_id = ? AND game_type_id = ?",
					f.SeasonID, f.LeagueID, f.GameTypeID)
			if len(playerIDs) > 0 {
				q = q.Where("player_id IN ?", playerIDs)
			}
			return q
		}

		var total int64
		if err := base().Count(&total).Error; err != nil {
			errDetail(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}

		var rows []dbpkg.GoalieCard
		if err := base().
			Offset((pageNumber - 1) * pageSize).
			Limit(pageSize).
			Find(&rows).Error; err != nil {
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

		jsonResponse(ctx, fasthttp.StatusOK, PageResponse{
			Data:        cards,
			PageNumber:  pageNumber,
			PageSize:    pageSize,
			Total:       total,
			TotalPages:  totalPages(total, pageSize),
			LastUpdated: updated,
		})
	}
}

// GoalieCardNames serves GET /v1/goalies/cards/names.
func GoalieCardNames(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}
		f, ok := parseStatFilters(ctx, seasonMaxCards, statsGameTypes, false)
		if !ok {
			return
		}

		var rows []dbpkg.GoalieCard
		if err := db.Table(dbpkg.TierTable(user, "goalies_page")).
			Where("season_id = ? AND league_id = ? AND game_type_id = ?",
				f.SeasonID, f.LeagueID, f.GameTypeID).
			Order("player_name ASC").
			Find(&rows).Error; err != nil {
			errDetail(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}

		results := make([]SearchResultItem, 0, len(rows))
		for _, row := range rows {
			results = append(results, SearchResultItem{ID: row.PlayerID, Name: strOr(row.PlayerName, na)})
		}
		jsonResponse(ctx, fasthttp.StatusOK, SearchResult{Results: results})
	}
}
