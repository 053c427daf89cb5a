package handlers

import (
	"errors"
	"strconv"

	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	dbpkg "statsheet/internal/db"
)

// PlayoffOddsList serves GET /v1/playoff-odds/data: Monte Carlo
// playoff probabilities for every team in a league, highest odds
// first. 404 when the simulation has not been run for the slice.
func PlayoffOddsList(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}
		seasonID, ok := requireInt(ctx, "season_id")
		if !ok {
			return
		}
		leagueID, ok := requireInt(ctx, "league_id")
		if !ok {
			return
		}

		var rows []dbpkg.PlayoffOdds
		if err := db.Table(dbpkg.TierTable(user, "playoff_odds")).
			Where("season_id = ? AND league_id = ?", seasonID, leagueID).
			Order("playoff_odds DESC").
			Find(&rows).Error; err != nil {
			errDetail(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}

		if len(rows) == 0 {
			errDetail(ctx, fasthttp.StatusNotFound,
				"No playoff odds found for season "+strconv.Itoa(seasonID)+", league "+strconv.Itoa(leagueID))
			return
		}

		jsonResponse(ctx, fasthttp.StatusOK, rows)
	}
}

// TeamPlayoffOdds serves GET /v1/playoff-odds/{team_id}.
func TeamPlayoffOdds(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}

		teamIDStr, _ := ctx.UserValue("team_id").(string)
		teamID, err := strconv.ParseInt(teamIDStr, 10, 64)
		if err != nil || teamID <= 0 {
			errDetail(ctx, fasthttp.StatusBadRequest, "Invalid team_id")
			return
		}

		seasonID, ok := requireInt(ctx, "season_id")
		if !ok {
			return
		}
		leagueID, ok := requireInt(ctx, "league_id")
		if !ok {
			return
		}

		var row dbpkg.PlayoffOdds
		err = db.Table(dbpkg.TierTable(user, "playoff_odds")).
			Where("season_id = ? AND league_id = ? AND team_id = ?", seasonID, leagueID, teamID).
			First(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				errDetail(ctx, fasthttp.StatusNotFound,
					"Playoff odds not found for team "+strconv.FormatInt(teamID, 10))
				return
			}
			errDetail(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}

		jsonResponse(ctx, fasthttp.StatusOK, row)
	}
}
