package handlers

import (
	"strings"

	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	dbpkg "statsheet/internal/db"
)

var statsGameTypes = []int{1, 3}

// playerSortColumns is the whitelist for the stats table's sort_by
// parameter; anything else is rejected before touching the database.
var playerSortColumns = []string{
	"player_name", "team_name", "contract", "win", "loss", "otl",
	"points", "goals", "assists", "plus_minus",
	"xg", "xa", "gax", "aax", "ioff", "off_gar",
	"interceptions", "takeaways", "blocks", "idef", "def_gar",
	"overall_rating", "offense_rating", "defense_rating",
	"teammate_rating", "opponent_rating",
}

// PlayerStatsData is one row of the skater stats table response.
// ioff/idef are served as percentages, not ratios.
type PlayerStatsData struct {
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

	Points    int `json:"points"`
	Goals     int `json:"goals"`
	Assists   int `json:"assists"`
	PlusMinus int `json:"plus_minus"`

	XG     float64 `json:"xg"`
	XA     float64 `json:"xa"`
	GAx    float64 `json:"gax"`
	AAx    float64 `json:"aax"`
	IOff   float64 `json:"ioff"`
	OffGAR float64 `json:"off_gar"`

	Interceptions int     `json:"interceptions"`
	Takeaways     int     `json:"takeaways"`
	Blocks        int     `json:"blocks"`
	IDef          float64 `json:"idef"`
	DefGAR        float64 `json:"def_gar"`

	OverallRating  *float64 `json:"overall_rating"`
	OffenseRating  *float64 `json:"offense_rating"`
	DefenseRating  *float64 `json:"defense_rating"`
	TeammateRating *float64 `json:"teammate_rating"`
	OpponentRating *float64 `json:"opponent_rating"`
}

// sortClause validates sort_by/sort_order against the whitelist and
// returns the ORDER BY expression. NULLS LAST keeps unrated players
// at the bottom either way.
func sortClause(ctx *fasthttp.RequestCtx, columns []string, defaultOrder string) (string, bool) {
	sortBy := queryStr(ctx, "sort_by")
	sortOrder := queryStr(ctx, "sort_order")
	if sortOrder == "" {
		sortOrder = "desc"
	}

	if sortOrder != "asc" && sortOrder != "desc" {
		errDetail(ctx, fasthttp.StatusBadRequest, "Invalid sort_order (must be 'asc' or 'desc')")
		return "", false
	}
	if sortBy == "" {
		return defaultOrder, true
	}
	if !strOneOf(sortBy, columns...) {
		errDetail(ctx, fasthttp.StatusBadRequest,
			"Invalid sort_by column. Must be one of: "+strings.Join(columns, ", "))
		return "", false
	}
	return sortBy + " " + strings.ToUpper(sortOrder) + " NULLS LAST", true
}

// PlayerStats serves GET /v1/players/stats: the sortable, filterable,
// paginated skater stats table.
func PlayerStats(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}
		f, ok := parseStatFilters(ctx, seasonMaxCards, statsGameTypes, true)
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
		order, ok := sortClause(ctx, playerSortColumns, "overall_rating DESC NULLS LAST")
		if !ok {
			return
		}
		teamName := queryStr(ctx, "team_name")

		table := dbpkg.TierTable(user, "players_stats_page")
		base := func() *gorm.DB {
			q := db.Table(table).
				Where("season_id = ? AND league_id = ? AND game_type_id = ? AND pos_group = ?",
					f.SeasonID, f.LeagueID, f.GameTypeID, f.PosGroup)
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

		var rows []dbpkg.PlayerStatsRow
		if err := base().
			Order(order).
			Offset((pageNumber - 1) * pageSize).
			Limit(pageSize).
			Find(&rows).Error; err != nil {
			errDetail(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}

		data := make([]PlayerStatsData, 0, len(rows))
		for _, row := range rows {
			data = append(data, playerStatsData(row))
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

func playerStatsData(row dbpkg.PlayerStatsRow) PlayerStatsData {
	return PlayerStatsData{
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

		Points:    orZeroI(row.Points),
		Goals:     orZeroI(row.Goals),
		Assists:   orZeroI(row.Assists),
		PlusMinus: orZeroI(row.PlusMinus),

		XG:     orZeroF(row.XG),
		XA:     orZeroF(row.XA),
		GAx:    orZeroF(row.GAx),
		AAx:    orZeroF(row.AAx),
		IOff:   orZeroF(row.IOff) * 100,
		OffGAR: orZeroF(row.OffGAR),

		Interceptions: orZeroI(row.Intercpts),
		Takeaways:     orZeroI(row.Takeaways),
		Blocks:        orZeroI(row.Blocks),
		IDef:          orZeroF(row.IDef) * 100,
		DefGAR:        orZeroF(row.DefGAR),

		OverallRating:  row.OverallRating,
		OffenseRating:  row.OffenseRating,
		DefenseRating:  row.DefenseRating,
		TeammateRating: row.TeammateRating,
		OpponentRating: row.OpponentRating,
	}
}

// TeamFilterOption is one entry of the stats page's team dropdown.
type TeamFilterOption struct {
	TeamName string `json:"team_name"`
}

// PlayerStatsFilters serves GET /v1/players/stats/filters: the
// distinct team names available for the given season/league/game type.
func PlayerStatsFilters(db *gorm.DB) fasthttp.RequestHandler {
	return statsTeamFilters(db, "players_stats_page")
}

// PlayerStatsNames serves GET /v1/players/stats/names: autocomplete
// entries for the stats page.
func PlayerStatsNames(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}
		f, ok := parseStatFilters(ctx, seasonMaxCards, statsGameTypes, true)
		if !ok {
			return
		}

		var rows []dbpkg.PlayerStatsRow
		if err := db.Table(dbpkg.TierTable(user, "players_stats_page")).
			Where("season_id = ? AND league_id = ? AND game_type_id = ? AND pos_group = ?",
				f.SeasonID, f.LeagueID, f.GameTypeID, f.PosGroup).
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

// statsTeamFilters returns the distinct non-null team names in a stats
// table, alphabetically, for the team filter dropdowns.
func statsTeamFilters(db *gorm.DB, source string) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}
		f, ok := parseStatFilters(ctx, seasonMaxCards, statsGameTypes, false)
		if !ok {
			return
		}

		var names []string
		if err := db.Table(dbpkg.TierTable(user, source)).
			Distinct("team_name").
			Where("season_id = ? AND league_id = ? AND game_type_id = ? AND team_name IS NOT NULL",
				f.SeasonID, f.LeagueID, f.GameTypeID).
			Order("team_name").
			Pluck("team_name", &names).Error; err != nil {
			errDetail(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}

		options := make([]TeamFilterOption, 0, len(names))
		for _, name := range names {
			options = append(options, TeamFilterOption{TeamName: name})
		}
		jsonResponse(ctx, fasthttp.StatusOK, options)
	}
}
