package handlers

import (
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	dbpkg "statsheet/internal/db"
)

// The pipeline only loads regular-season goalie stat rows, so the
// goalie stats pages reject every other game type.
var goalieStatsGameTypes = []int{1}

var goalieSortColumns = []string{
	"player_name", "team_name", "contract", "win", "loss", "otl",
	"shots_against", "xsh", "shots_prevented", "goals_against",
	"xga", "gsax", "gsaa", "shutouts",
	"overall_rating", "teammate_rating", "opponent_rating",
}

// GoalieStatsData is one row of the goalie stats table response.
type GoalieStatsData struct {
	SeasonID   int    `json:"season_id"`
	LeagueID   int    `json:"league_id"`
	GameTypeID int    `json:"game_type_id"`
	PlayerID   int64  `json:"player_id"`
	PosGroup   string `json:"pos_group"`

	PlayerName string  `json:"player_name"`
	TeamName   string  `json:"team_name"`
	Contract   float64 `json:"contract"`

	Win  int `json:"win"`
	Loss int `json:"loss"`
	OTL  int `json:"otl"`

	ShotsAgainst   int     `json:"shots_against"`
	XSh            float64 `json:"xsh"`
	ShotsPrevented float64 `json:"shots_prevented"`
	GoalsAgainst   int     `json:"goals_against"`
	XGA            float64 `json:"xga"`
	GSAx           float64 `json:"gsax"`
	GSAA           float64 `json:"gsaa"`
	Shutouts       int     `json:"shutouts"`

	OverallRating  *float64 `json:"overall_rating"`
	TeammateRating *float64 `json:"teammate_rating"`
	OpponentRating *float64 `json:"opponent_rating"`
}

// GoalieStats serves GET /v1/goalies/stats: the sortable, filterable,
// paginated goalie stats table.
func GoalieStats(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}
		f, ok := parseStatFilters(ctx, seasonMaxCards, goalieStatsGameTypes, false)
		if !ok {
			return
		}
		playerIDs, ok := playerIDFilter(ctx)
		if !ok {
			return
		}
		pageNumber, pageSize, ok := parsePage(ctx, defaultStatsPageSize)
		if !ok {
			return
		}
		order, ok := sortClause(ctx, goalieSortColumns, "overall_rating DESC NULLS LAST")
		if !ok {
			return
		}
		teamName := queryStr(ctx, "team_name")

		table := dbpkg.TierTable(user, "goalie_stats_page")
		base := func() *gorm.DB {
			q := db.Table(table).
				Where("season_id = ? AND league_id = ? AND game_type_id = ?",
					f.SeasonID, f.LeagueID, f.GameTypeID)
			if len(playerIDs) > 0 {
				q = q.Where("player_id IN ?", playerIDs)
			}
			if teamName != "" {
				q = q.Where("team_name = ?", teamName)
			}
			return q
		}

		var total int64
		if err := base().Count(&total).Error; err != nil {
			errDetail(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}

		var rows []dbpkg.GoalieStatsRow
		if err := base().
			Order(order).
			Offset((pageNumber - 1) * pageSize).
			Limit(pageSize).
			Find(&rows).Error; err != nil {
			errDetail(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}

		data := make([]GoalieStatsData, 0, len(rows))
		for _, row := range rows {
			data = append(data, goalieStatsData(row))
		}

		updated := na
		if len(rows) > 0 {
			updated = formatLastUpdated(rows[0].LastUpdated)
		}

		jsonResponse(ctx, fasthttp.StatusOK, PageResponse{
			Data:        data,
			PageNumber:  pageNumber,
			PageSize:    pageSize,
			Total:       total,
			TotalPages:  totalPages(total, pageSize),
			LastUpdated: updated,
		})
	}
}

func goalieStatsData(row dbpkg.GoalieStatsRow) GoalieStatsData {
	return GoalieStatsData{
		SeasonID:   row.SeasonID,
		LeagueID:   row.LeagueID,
		GameTypeID: row.GameTypeID,
		PlayerID:   row.PlayerID,
		PosGroup:   row.PosGroup,

		PlayerName: strOr(row.PlayerName, "Unknown"),
		TeamName:   strOr(row.TeamName, "Unknown"),
		Contract:   orZeroF(row.Contract),

		Win:  orZeroI(row.Win),
		Loss: orZeroI(row.Loss),
		OTL:  orZeroI(row.OTL),

		ShotsAgainst:   orZeroI(row.ShotsAgainst),
		XSh:            orZeroF(row.XSh),
		ShotsPrevented: orZeroF(row.ShotsPrevented),
		GoalsAgainst:   orZeroI(row.GoalsAgainst),
		XGA:            orZeroF(row.XGA),
		GSAx:           orZeroF(row.GSAx),
		GSAA:           orZeroF(row.GSAA),
		Shutouts:       orZeroI(row.Shutouts),

		OverallRating:  row.OverallRating,
		TeammateRating: row.TeammateRating,
		OpponentRating: row.OpponentRating,
	}
}

// GoalieStatsFilters serves GET /v1/goalies/stats/filters.
func GoalieStatsFilters(db *gorm.DB) fasthttp.RequestHandler {
	return statsTeamFilters(db, "goalie_stats_page")
}

// GoalieStatsNames serves GET /v1/goalies/stats/names.
func GoalieStatsNames(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}
		f, ok := parseStatFilters(ctx, seasonMaxCards, goalieStatsGameTypes, false)
		if !ok {
			return
		}

		var rows []dbpkg.GoalieStatsRow
		if err := db.Table(dbpkg.TierTable(user, "goalie_stats_page")).
			Where("season_id = ? AND league_id = ? AND game_type_id = ?",
				f.SeasonID, f.LeagueID, f.GameTypeID).
			Order("player_name ASC").
			Find(&rows).Error; err != nil {
			errDetail(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}

		results := make([]SearchResultItem, 0, len(rows))
		for _, row := range rows {
			results = append(results, SearchResultItem{ID: row.PlayerID, Name: strOr(row.PlayerName, "Unknown")})
		}
		jsonResponse(ctx, fasthttp.StatusOK, SearchResult{Results: results})
	}
}
