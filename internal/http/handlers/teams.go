package handlers

import (
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	dbpkg "statsheet/internal/db"
)

// TeamCards serves GET /v1/teams/cards: paginated team cards. Teams
// carry one extra season relative to the player pages.
func TeamCards(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}
		f, ok := parseStatFilters(ctx, seasonMaxTeams, playerCardGameTypes, false)
		if !ok {
			return
		}

		var teamID int
		if s := queryStr(ctx, "team_id"); s != "" {
			teamID, ok = optionalInt(ctx, "team_id", 0)
			if !ok || teamID <= 0 {
				errDetail(ctx, fasthttp.StatusBadRequest, "Invalid team_id")
				return
			}
		}

		pageNumber, pageSize, ok := parsePage(ctx, defaultCardPageSize)
		if !ok {
			return
		}

		table := dbpkg.TierTable(user, "teams_page")
		base := func() *gorm.DB {
			q := db.Table(table).
				Where("season_id = ? AND league_id = ? AND game_type_id = ?",
					f.SeasonID, f.LeagueID, f.GameTypeID)
			if teamID > 0 {
				q = q.Where("team_id = ?", teamID)
			}
			return q
		}

		var total int64
		if err := base().Count(&total).Error; err != nil {
			errDetail(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}

		var rows []dbpkg.TeamCard
		if err := base().
			Offset((pageNumber - 1) * pageSize).
			Limit(pageSize).
			Find(&rows).Error; err != nil {
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

// TeamCardNames serves GET /v1/teams/cards/names, sorted by full name.
func TeamCardNames(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}
		f, ok := parseStatFilters(ctx, seasonMaxTeams, playerCardGameTypes, false)
		if !ok {
			return
		}

		var rows []dbpkg.TeamCard
		if err := db.Table(dbpkg.TierTable(user, "teams_page")).
			Where("season_id = ? AND league_id = ? AND game_type_id = ?",
				f.SeasonID, f.LeagueID, f.GameTypeID).
			Order("team_full_name ASC").
			Find(&rows).Error; err != nil {
			errDetail(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}

		results := make([]SearchResultItem, 0, len(rows))
		for _, row := range rows {
			results = append(results, SearchResultItem{ID: row.TeamID, Name: strOr(row.TeamFullName, na)})
		}
		jsonResponse(ctx, fasthttp.StatusOK, SearchResult{Results: results})
	}
}

// FilterOption is a labeled dropdown value for the SOS filters.
type FilterOption struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

var dayNames = map[int]string{
	-1: "All Days",
	0:  "Sunday",
	1:  "Monday",
	2:  "Tuesday",
	3:  "Wednesday",
	4:  "Thursday",
	5:  "Friday",
	6:  "Saturday",
}

// TeamSOSFilters serves GET /v1/teams/sos/filters: the distinct weeks
// and days of week available for the strength-of-schedule view.
func TeamSOSFilters(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if _, ok := MustUser(ctx); !ok {
			return
		}
		f, ok := parseStatFilters(ctx, seasonMaxTeams, playerCardGameTypes, false)
		if !ok {
			return
		}

		scoped := func() *gorm.DB {
			return db.Model(&dbpkg.TeamSOS{}).
				Where("season_id = ? AND league_id = ? AND game_type_id = ?",
					f.SeasonID, f.LeagueID, f.GameTypeID)
		}

		var weeks []int
		if err := scoped().Distinct("week_id").Order("week_id").Pluck("week_id", &weeks).Error; err != nil {
			errDetail(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}
		var days []int
		if err := scoped().Distinct("game_dow").Order("game_dow").Pluck("game_dow", &days).Error; err != nil {
			errDetail(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}

		weekOptions := make([]FilterOption, 0, len(weeks))
		for _, w := range weeks {
			label := "All Weeks"
			if w != 0 {
				label = "Week " + itoa(int64(w))
			}
			weekOptions = append(weekOptions, FilterOption{Label: label, Value: w})
		}

		dayOptions := make([]FilterOption, 0, len(days))
		for _, d := range days {
			label, known := dayNames[d]
			if !known {
				label = "Day " + itoa(int64(d))
			}
			dayOptions = append(dayOptions, FilterOption{Label: label, Value: d})
		}

		jsonResponse(ctx, fasthttp.StatusOK, map[string]any{
			"weeks":        weekOptions,
			"days_of_week": dayOptions,
		})
	}
}

// TeamSOSData serves GET /v1/teams/sos/data: strength-of-schedule rows
// for the selected week/day slice, strongest opponents first.
// week_id 0 is the season aggregate; game_dow -1 the weekly aggregate.
func TeamSOSData(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if _, ok := MustUser(ctx); !ok {
			return
		}
		f, ok := parseStatFilters(ctx, seasonMaxTeams, playerCardGameTypes, false)
		if !ok {
			return
		}
		weekID, ok := optionalInt(ctx, "week_id", 0)
		if !ok || weekID < 0 {
			errDetail(ctx, fasthttp.StatusBadRequest, "Invalid week_id")
			return
		}
		gameDOW, ok := optionalInt(ctx, "game_dow", -1)
		if !ok || gameDOW < -1 || gameDOW > 6 {
			errDetail(ctx, fasthttp.StatusBadRequest, "Invalid game_dow")
			return
		}

		var rows []dbpkg.TeamSOS
		if err := db.
			Where("season_id = ? AND league_id = ? AND game_type_id = ? AND week_id = ? AND game_dow = ?",
				f.SeasonID, f.LeagueID, f.GameTypeID, weekID, gameDOW).
			Order("opponent_rating DESC").
			Find(&rows).Error; err != nil {
			errDetail(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}

		jsonResponse(ctx, fasthttp.StatusOK, rows)
	}
}
