package handlers

import (
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	dbpkg "statsheet/internal/db"
)

var playerCardGameTypes = []int{1, 2}

// PlayerCards serves GET /v1/players/cards: paginated skater cards
// filtered by season, league, game type and position group. Premium
// users read the live table, everyone else the weekly snapshot.
func PlayerCards(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}
		f, ok := parseStatFilters(ctx, seasonMaxCards, playerCardGameTypes, true)
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

		table := dbpkg.TierTable(user, "players_page")
		base := func() *gorm.DB {
			q := db.Table(table).
				Where("season_id = ? AND league_id = ? AND game_type_id = ? AND pos_group = ?",
					f.SeasonID, f.LeagueID, f.GameTypeID, f.PosGroup)
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

		var rows []dbpkg.PlayerCard
		if err := base().
			Offset((pageNumber - 1) * pageSize).
			Limit(pageSize).
			Find(&rows).Error; err != nil {
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

// PlayerCardNames serves GET /v1/players/cards/names: the autocomplete
// list for the card page, sorted by player name.
func PlayerCardNames(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}
		f, ok := parseStatFilters(ctx, seasonMaxCards, playerCardGameTypes, true)
		if !ok {
			return
		}

		var rows []dbpkg.PlayerCard
		if err := db.Table(dbpkg.TierTable(user, "players_page")).
			Where("season_id = ? AND league_id = ? AND game_type_id = ? AND pos_group = ?",
				f.SeasonID, f.LeagueID, f.GameTypeID, f.PosGroup).
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

// playerIDFilter parses the optional player_ids (comma-separated,
// preferred) and player_id (single, legacy) parameters. Sends the 400
// itself and returns ok=false on malformed input.
func playerIDFilter(ctx *fasthttp.RequestCtx) ([]int64, bool) {
	if s := queryStr(ctx, "player_ids"); s != "" {
		ids, ok := parseIDList(s)
		if !ok {
			errDetail(ctx, fasthttp.StatusBadRequest, "Invalid player_ids format (must be comma-separated positive integers)")
			return nil, false
		}
		return ids, true
	}
	if s := queryStr(ctx, "player_id"); s != "" {
		id, ok := optionalInt(ctx, "player_id", 0)
		if !ok || id <= 0 {
			errDetail(ctx, fasthttp.StatusBadRequest, "Invalid player_id")
			return nil, false
		}
		return []int64{int64(id)}, true
	}
	return nil, true
}
