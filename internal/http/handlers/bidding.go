package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	dbpkg "statsheet/internal/db"
)

// The bidding package pages are gated on the one-time purchase flag,
// not the subscription tier, and read a single live table.

var biddingSortColumns = []string{
	"player_name", "position", "pos_group", "status", "server", "console",
	"is_rostered", "last_season_id", "last_league_name",
	"games_played", "wins", "losses", "points",
	"war_percentile", "team_percentile", "sos_percentile",
}

var (
	biddingPositions = []string{"LW", "C", "RW", "LD", "RD", "G"}
	biddingPosGroups = []string{"F", "D", "G", "C", "W"}
	biddingServers   = []string{"East", "Central", "West"}
	biddingConsoles  = []string{"PS5", "Xbox Series X|S"}
)

const (
	defaultBiddingPageSize = 50
	maxBiddingPageSize     = 200
)

var leagueNames = map[int]string{
	37: "NHL", 38: "AHL", 39: "CHL", 84: "ECHL", 112: "NCAA",
}

// requireBiddingPackage authenticates the caller and then checks the
// purchase, sending the 401 or 403 itself.
func requireBiddingPackage(ctx *fasthttp.RequestCtx) (*dbpkg.User, bool) {
	user, ok := MustUser(ctx)
	if !ok {
		return nil, false
	}
	if !user.HasBiddingPackageAccess() {
		errDetail(ctx, fasthttp.StatusForbidden, "Bidding Package purchase required to access this feature")
		return nil, false
	}
	return user, true
}

// biddingSortClause validates sort_by/sort_order against the bidding
// whitelist. Descending sorts push NULLs to the bottom, ascending ones
// to the top, so missing percentiles never lead the page.
func biddingSortClause(ctx *fasthttp.RequestCtx) (string, bool) {
	sortBy := queryStr(ctx, "sort_by")
	if sortBy == "" {
		sortBy = "war_percentile"
	}
	sortOrder := queryStr(ctx, "sort_order")
	if sortOrder == "" {
		sortOrder = "desc"
	}

	if !strOneOf(sortBy, biddingSortColumns...) {
		errDetail(ctx, fasthttp.StatusBadRequest,
			"Invalid sort_by column. Must be one of: "+strings.Join(biddingSortColumns, ", "))
		return "", false
	}
	if sortOrder != "asc" && sortOrder != "desc" {
		errDetail(ctx, fasthttp.StatusBadRequest, "Invalid sort_order (must be 'asc' or 'desc')")
		return "", false
	}

	nullOrder := "NULLS LAST"
	if sortOrder == "asc" {
		nullOrder = "NULLS FIRST"
	}
	return sortBy + " " + strings.ToUpper(sortOrder) + " " + nullOrder, true
}

// BiddingPackageList serves GET /v1/bidding-package/data: every open
// free-agent signup with last-season stats, filterable and sortable.
func BiddingPackageList(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if _, ok := requireBiddingPackage(ctx); !ok {
			return
		}

		pageNumber, ok := optionalInt(ctx, "page_number", 1)
		if !ok || pageNumber <= 0 {
			errDetail(ctx, fasthttp.StatusBadRequest, "Invalid page_number (must be > 0)")
			return
		}
		pageSize, ok := optionalInt(ctx, "page_size", defaultBiddingPageSize)
		if !ok || pageSize <= 0 || pageSize > maxBiddingPageSize {
			errDetail(ctx, fasthttp.StatusBadRequest, "Invalid page_size (must be 1-200)")
			return
		}
		order, ok := biddingSortClause(ctx)
		if !ok {
			return
		}

		position := queryStr(ctx, "position")
		if position != "" && !strOneOf(position, biddingPositions...) {
			errDetail(ctx, fasthttp.StatusBadRequest,
				"Invalid position. Must be one of: "+strings.Join(biddingPositions, ", "))
			return
		}
		posGroup := queryStr(ctx, "pos_group")
		if posGroup != "" && !strOneOf(posGroup, biddingPosGroups...) {
			errDetail(ctx, fasthttp.StatusBadRequest,
				"Invalid pos_group. Must be one of: "+strings.Join(biddingPosGroups, ", "))
			return
		}
		server := queryStr(ctx, "server")
		if server != "" && !strOneOf(server, biddingServers...) {
			errDetail(ctx, fasthttp.StatusBadRequest,
				"Invalid server. Must be one of: "+strings.Join(biddingServers, ", "))
			return
		}
		console := queryStr(ctx, "console")
		if console != "" && !strOneOf(console, biddingConsoles...) {
			errDetail(ctx, fasthttp.StatusBadRequest,
				"Invalid console. Must be one of: "+strings.Join(biddingConsoles, ", "))
			return
		}

		showRostered := true
		if s := queryStr(ctx, "show_rostered"); s != "" {
			v, err := strconv.ParseBool(s)
			if err != nil {
				errDetail(ctx, fasthttp.StatusBadRequest, "Invalid show_rostered")
				return
			}
			showRostered = v
		}

		lastSeasonID, ok := optionalInt(ctx, "last_season_id", 0)
		if !ok {
			errDetail(ctx, fasthttp.StatusBadRequest, "Invalid last_season_id")
			return
		}
		lastLeagueID, ok := optionalInt(ctx, "last_league_id", 0)
		if !ok || (lastLeagueID != 0 && !intOneOf(lastLeagueID, leagueIDs...)) {
			errDetail(ctx, fasthttp.StatusBadRequest, "Invalid last_league_id")
			return
		}

		search := strings.TrimSpace(queryStr(ctx, "search"))

		base := func() *gorm.DB {
			q := db.Model(&dbpkg.BiddingPackageRow{})
			if search != "" {
				q = q.Where("LOWER(player_name) LIKE LOWER(?)", "%"+search+"%")
			}
			if position != "" {
				q = q.Where("position = ?", position)
			}
			if posGroup != "" {
				q = q.Where("pos_group = ?", posGroup)
			}
			if server != "" {
				q = q.Where("server = ?", server)
			}
			if console != "" {
				q = q.Where("console = ?", console)
			}
			if !showRostered {
				q = q.Where("is_rostered = ?", false)
			}
			if lastSeasonID != 0 {
				q = q.Where("last_season_id = ?", lastSeasonID)
			}
			if lastLeagueID != 0 {
				q = q.Where("last_league_id = ?", lastLeagueID)
			}
			return q
		}

		var total int64
		if err := base().Count(&total).Error; err != nil {
			errDetail(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}

		var rows []dbpkg.BiddingPackageRow
		if err := base().
			Order(order).
			Offset((pageNumber - 1) * pageSize).
			Limit(pageSize).
			Find(&rows).Error; err != nil {
			errDetail(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}

		// The view carries no refresh timestamp.
		jsonResponse(ctx, fasthttp.StatusOK, PageResponse{
			Data:        rows,
			PageNumber:  pageNumber,
			PageSize:    pageSize,
			Total:       total,
			TotalPages:  totalPages(total, pageSize),
			LastUpdated: na,
		})
	}
}

// BiddingPlayerSeason is one historical season on the player detail
// page. Skater and goalie stats share the struct; the side that does
// not apply stays null.
type BiddingPlayerSeason struct {
	SeasonID   int    `json:"season_id"`
	LeagueID   int    `json:"league_id"`
	LeagueName string `json:"league_name"`
	GameTypeID int    `json:"game_type_id"`
	PosGroup   string `json:"pos_group"`

	TeamName *string  `json:"team_name"`
	Contract *float64 `json:"contract"`

	Win  int `json:"win"`
	Loss int `json:"loss"`
	OTL  int `json:"otl"`

	Points    *int `json:"points,omitempty"`
	Goals     *int `json:"goals,omitempty"`
	Assists   *int `json:"assists,omitempty"`
	PlusMinus *int `json:"plus_minus,omitempty"`

	ShotsAgainst *int     `json:"shots_against,omitempty"`
	GoalsAgainst *int     `json:"goals_against,omitempty"`
	GSAx         *float64 `json:"gsax,omitempty"`
	GSAA         *float64 `json:"gsaa,omitempty"`
	Shutouts     *int     `json:"shutouts,omitempty"`

	OverallRating  *float64 `json:"overall_rating"`
	TeammateRating *float64 `json:"teammate_rating"`
	OpponentRating *float64 `json:"opponent_rating"`
}

// BiddingPlayerDetail is the GET /v1/bidding-package/player/{player_id}
// payload: the signup row plus every regular season on record.
type BiddingPlayerDetail struct {
	Player  dbpkg.BiddingPackageRow `json:"player"`
	Seasons []BiddingPlayerSeason   `json:"seasons"`
}

// BiddingPackagePlayer serves the per-player detail: basic signup info
// and the player's full regular-season history, newest first.
func BiddingPackagePlayer(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if _, ok := requireBiddingPackage(ctx); !ok {
			return
		}

		idStr, _ := ctx.UserValue("player_id").(string)
		playerID, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			errDetail(ctx, fasthttp.StatusBadRequest, "Invalid player_id")
			return
		}

		var player dbpkg.BiddingPackageRow
		if err := db.Where("player_id = ?", playerID).First(&player).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				errDetail(ctx, fasthttp.StatusNotFound, "Player not found in bidding package")
				return
			}
			errDetail(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}

		seasons, err := biddingPlayerSeasons(db, playerID, strOr(player.PosGroup, "") == "G")
		if err != nil {
			errDetail(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}

		jsonResponse(ctx, fasthttp.StatusOK, BiddingPlayerDetail{Player: player, Seasons: seasons})
	}
}

func biddingPlayerSeasons(db *gorm.DB, playerID int64, goalie bool) ([]BiddingPlayerSeason, error) {
	seasons := []BiddingPlayerSeason{}

	if goalie {
		var rows []dbpkg.GoalieStatsRow
		err := db.Where("player_id = ? AND game_type_id = ? AND league_id IN ?", playerID, 1, leagueIDs).
			Order("season_id DESC, league_id ASC").
			Find(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			seasons = append(seasons, BiddingPlayerSeason{
				SeasonID:   row.SeasonID,
				LeagueID:   row.LeagueID,
				LeagueName: leagueNames[row.LeagueID],
				GameTypeID: row.GameTypeID,
				PosGroup:   row.PosGroup,
				TeamName:   row.TeamName,
				Contract:   row.Contract,
				Win:        orZeroI(row.Win),
				Loss:       orZeroI(row.Loss),
				OTL:        orZeroI(row.OTL),

				ShotsAgainst: row.ShotsAgainst,
				GoalsAgainst: row.GoalsAgainst,
				GSAx:         row.GSAx,
				GSAA:         row.GSAA,
				Shutouts:     row.Shutouts,

				OverallRating:  row.OverallRating,
				TeammateRating: row.TeammateRating,
				OpponentRating: row.OpponentRating,
			})
		}
		return seasons, nil
	}

	var rows []dbpkg.PlayerStatsRow
	err := db.Where("player_id = ? AND game_type_id = ? AND league_id IN ?", playerID, 1, leagueIDs).
		Order("season_id DESC, league_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		seasons = append(seasons, BiddingPlayerSeason{
			SeasonID:   row.SeasonID,
			LeagueID:   row.LeagueID,
			LeagueName: leagueNames[row.LeagueID],
			GameTypeID: row.GameTypeID,
			PosGroup:   row.PosGroup,
			TeamName:   row.TeamName,
			Contract:   row.Contract,
			Win:        orZeroI(row.Win),
			Loss:       orZeroI(row.Loss),
			OTL:        orZeroI(row.OTL),

			Points:    row.Points,
			Goals:     row.Goals,
			Assists:   row.Assists,
			PlusMinus: row.PlusMinus,

			OverallRating:  row.OverallRating,
			TeammateRating: row.TeammateRating,
			OpponentRating: row.OpponentRating,
		})
	}
	return seasons, nil
}
