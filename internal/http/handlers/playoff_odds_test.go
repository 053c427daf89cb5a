package handlers

import (
	"testing"

	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	dbpkg "statsheet/internal/db"
)

func seedPlayoffOdds(t *testing.T, gdb *gorm.DB) {
	t.Helper()
	rows := []dbpkg.PlayoffOdds{
		{SeasonID: 52, LeagueID: 37, TeamID: 1, TeamName: sptr("Longshots"), PlayoffOdds: f64ptr(0.12)},
		{SeasonID: 52, LeagueID: 37, TeamID: 2, TeamName: sptr("Contenders"), PlayoffOdds: f64ptr(0.93)},
	}
	if err := gdb.Create(&rows).Error; err != nil {
		t.Fatalf("seed playoff_odds: %v", err)
	}
}

func TestPlayoffOddsListOrderedByOdds(t *testing.T) {
	gdb := newTestDB(t)
	seedPlayoffOdds(t, gdb)

	ctx := newGetCtx("/v1/playoff-odds/data?season_id=52&league_id=37", premiumUser())
	PlayoffOddsList(gdb)(ctx)
	assertStatus(t, ctx, fasthttp.StatusOK)

	var rows []dbpkg.PlayoffOdds
	decodeBody(t, ctx, &rows)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if *rows[0].TeamName != "Contenders" {
		t.Errorf("rows not ordered by playoff_odds desc: first is %s", *rows[0].TeamName)
	}
}

func TestPlayoffOddsListEmptyIs404(t *testing.T) {
	gdb := newTestDB(t)
	seedPlayoffOdds(t, gdb)

	ctx := newGetCtx("/v1/playoff-odds/data?season_id=50&league_id=37", premiumUser())
	PlayoffOddsList(gdb)(ctx)
	assertStatus(t, ctx, fasthttp.StatusNotFound)

	var body map[string]string
	decodeBody(t, ctx, &body)
	if body["detail"] == "" {
		t.Error("expected a detail message")
	}
}

func TestPlayoffOddsFreeUserReadsSnapshot(t *testing.T) {
	gdb := newTestDB(t)
	seedPlayoffOdds(t, gdb)

	// Nothing copied into playoff_odds_free yet: free users see a 404
	// even though the live table has rows.
	ctx := newGetCtx("/v1/playoff-odds/data?season_id=52&league_id=37", freeUser())
	PlayoffOddsList(gdb)(ctx)
	assertStatus(t, ctx, fasthttp.StatusNotFound)

	if err := dbpkg.RefreshFreeTier(gdb); err != nil {
		t.Fatalf("RefreshFreeTier: %v", err)
	}

	ctx = newGetCtx("/v1/playoff-odds/data?season_id=52&league_id=37", freeUser())
	PlayoffOddsList(gdb)(ctx)
	assertStatus(t, ctx, fasthttp.StatusOK)
}

func TestTeamPlayoffOdds(t *testing.T) {
	gdb := newTestDB(t)
	seedPlayoffOdds(t, gdb)

	ctx := newGetCtx("/v1/playoff-odds/2?season_id=52&league_id=37", premiumUser())
	ctx.SetUserValue("team_id", "2")
	TeamPlayoffOdds(gdb)(ctx)
	assertStatus(t, ctx, fasthttp.StatusOK)

	var row dbpkg.PlayoffOdds
	decodeBody(t, ctx, &row)
	if row.TeamID != 2 || *row.TeamName != "Contenders" {
		t.Errorf("got team %d (%v), want team 2", row.TeamID, row.TeamName)
	}
}

func TestTeamPlayoffOddsMissingIs404(t *testing.T) {
	gdb := newTestDB(t)
	seedPlayoffOdds(t, gdb)

	ctx := newGetCtx("/v1/playoff-odds/99?season_id=52&league_id=37", premiumUser())
	ctx.SetUserValue("team_id", "99")
	TeamPlayoffOdds(gdb)(ctx)
	assertStatus(t, ctx, fasthttp.StatusNotFound)
}

func TestTeamPlayoffOddsRejectsBadTeamID(t *testing.T) {
	gdb := newTestDB(t)

	ctx := newGetCtx("/v1/playoff-odds/abc?season_id=52&league_id=37", premiumUser())
	ctx.SetUserValue("team_id", "abc")
	TeamPlayoffOdds(gdb)(ctx)
	assertStatus(t, ctx, fasthttp.StatusBadRequest)
}
