package handlers

import (
	"github.com/valyala/fasthttp"
)

// statFilters are the query parameters shared by every stat page:
// season, league, game type, and (for skaters/goalies) position group.
type statFilters struct {
	SeasonID   int
	LeagueID   int
	GameTypeID int
	PosGroup   string
}

// parseStatFilters validates the shared filter parameters against the
// pipeline's fixed value sets, sending the 400 itself on failure.
// seasonMax is exclusive (the teams pages carry one extra season);
// gameTypes is the allowed set for the page; withPos requires a
// pos_group of C, W or D.
func parseStatFilters(ctx *fasthttp.RequestCtx, seasonMax int, gameTypes []int, withPos bool) (statFilters, bool) {
	var f statFilters
	var ok bool

	if f.SeasonID, ok = requireInt(ctx, "season_id"); !ok {
		return f, false
	}
	if f.LeagueID, ok = requireInt(ctx, "league_id"); !ok {
		return f, false
	}
	if f.GameTypeID, ok = optionalInt(ctx, "game_type_id", 1); !ok {
		errDetail(ctx, fasthttp.StatusBadRequest, "Invalid game_type_id")
		return f, false
	}

	if !intBetween(f.SeasonID, seasonMinCards, seasonMax) {
		errDetail(ctx, fasthttp.StatusBadRequest, "Invalid season_id")
		return f, false
	}
	if !intOneOf(f.LeagueID, leagueIDs...) {
		errDetail(ctx, fasthttp.StatusBadRequest, "Invalid league_id")
		return f, false
	}
	if !intOneOf(f.GameTypeID, gameTypes...) {
		errDetail(ctx, fasthttp.StatusBadRequest, "Invalid game_type_id")
		return f, false
	}

	if withPos {
		f.PosGroup = queryStr(ctx, "pos_group")
		if !strOneOf(f.PosGroup, "C", "W", "D") {
			errDetail(ctx, fasthttp.StatusBadRequest, "Invalid pos_group (must be C, W, or D)")
			return f, false
		}
	}

	return f, true
}

// parsePage validates page_number and page_size, sending the 400
// itself on failure.
func parsePage(ctx *fasthttp.RequestCtx, defaultSize int) (pageNumber, pageSize int, ok bool) {
	pageNumber, ok = optionalInt(ctx, "page_number", 1)
	if !ok || pageNumber <= 0 {
		errDetail(ctx, fasthttp.StatusBadRequest, "Invalid page_number (must be > 0)")
		return 0, 0, false
	}
	pageSize, ok = optionalInt(ctx, "page_size", defaultSize)
	if !ok || pageSize <= 0 || pageSize > maxPageSize {
		errDetail(ctx, fasthttp.StatusBadRequest, "Invalid page_size (must be 1-500)")
		return 0, 0, false
	}
	return pageNumber, pageSize, true
}
