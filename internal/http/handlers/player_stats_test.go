package handlers

import (
	"encoding/json"
	"testing"

	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	dbpkg "statsheet/internal/db"
)

func seedPlayerStats(t *testing.T, gdb *gorm.DB) {
	t.Helper()
	rows := []dbpkg.PlayerStatsRow{
		{SeasonID: 52, LeagueID: 37, GameTypeID: 1, PlayerID: 1, PosGroup: "C",
			PlayerName: sptr("Mid Rating"), TeamName: sptr("Bravo"), OverallRating: f64ptr(80), Points: iptr(50)},
		{SeasonID: 52, LeagueID: 37, GameTypeID: 1, PlayerID: 2, PosGroup: "C",
			PlayerName: sptr("Top Rating"), TeamName: sptr("Alpha"), OverallRating: f64ptr(95), Points: iptr(30)},
		{SeasonID: 52, LeagueID: 37, GameTypeID: 1, PlayerID: 3, PosGroup: "C",
			PlayerName: sptr("No Rating"), TeamName: sptr("Alpha"), Points: iptr(70)},
	}
	if err := gdb.Create(&rows).Error; err != nil {
		t.Fatalf("seed players_stats_page: %v", err)
	}
}

func TestPlayerStatsDefaultSort(t *testing.T) {
	gdb := newTestDB(t)
	seedPlayerStats(t, gdb)

	ctx := newGetCtx("/v1/players/stats?season_id=52&league_id=37&pos_group=C", premiumUser())
	PlayerStats(gdb)(ctx)
	assertStatus(t, ctx, fasthttp.StatusOK)

	env := decodePage(t, ctx)
	var data []PlayerStatsData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode rows: %v", err)
	}
	if len(data) != 3 {
		t.Fatalf("got %d rows, want 3", len(data))
	}
	if data[0].PlayerName != "Top Rating" || data[1].PlayerName != "Mid Rating" {
		t.Errorf("rows not sorted by overall_rating desc: %s, %s", data[0].PlayerName, data[1].PlayerName)
	}
	// NULLS LAST keeps unrated players at the bottom.
	if data[2].PlayerName != "No Rating" {
		t.Errorf("unrated player not last: %s", data[2].PlayerName)
	}
}

func TestPlayerStatsExplicitSort(t *testing.T) {
	gdb := newTestDB(t)
	seedPlayerStats(t, gdb)

	ctx := newGetCtx("/v1/players/stats?season_id=52&league_id=37&pos_group=C&sort_by=points&sort_order=asc", premiumUser())
	PlayerStats(gdb)(ctx)
	assertStatus(t, ctx, fasthttp.StatusOK)

	env := decodePage(t, ctx)
	var data []PlayerStatsData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode rows: %v", err)
	}
	if data[0].Points != 30 || data[2].Points != 70 {
		t.Errorf("rows not sorted by points asc: %+v", data)
	}
}

func TestPlayerStatsRejectsUnknownSortColumn(t *testing.T) {
	gdb := newTestDB(t)

	for _, uri := range []string{
		"/v1/players/stats?season_id=52&league_id=37&pos_group=C&sort_by=password_hash",
		"/v1/players/stats?season_id=52&league_id=37&pos_group=C&sort_by=points;DROP TABLE users",
		"/v1/players/stats?season_id=52&league_id=37&pos_group=C&sort_order=sideways",
	} {
		ctx := newGetCtx(uri, premiumUser())
		PlayerStats(gdb)(ctx)
		assertStatus(t, ctx, fasthttp.StatusBadRequest)
	}
}

func TestPlayerStatsTeamFilter(t *testing.T) {
	gdb := newTestDB(t)
	seedPlayerStats(t, gdb)

	ctx := newGetCtx("/v1/players/stats?season_id=52&league_id=37&pos_group=C&team_name=Alpha", premiumUser())
	PlayerStats(gdb)(ctx)
	assertStatus(t, ctx, fasthttp.StatusOK)

	if env := decodePage(t, ctx); env.Total != 2 {
		t.Errorf("total = %d with team filter, want 2", env.Total)
	}
}

func TestPlayerStatsFiltersListsDistinctTeams(t *testing.T) {
	gdb := newTestDB(t)
	seedPlayerStats(t, gdb)

	ctx := newGetCtx("/v1/players/stats/filters?season_id=52&league_id=37", premiumUser())
	PlayerStatsFilters(gdb)(ctx)
	assertStatus(t, ctx, fasthttp.StatusOK)

	var options []TeamFilterOption
	decodeBody(t, ctx, &options)
	if len(options) != 2 {
		t.Fatalf("got %d team options, want 2 distinct", len(options))
	}
	if options[0].TeamName != "Alpha" || options[1].TeamName != "Bravo" {
		t.Errorf("options not alphabetical: %+v", options)
	}
}

func TestPlayerStatsUsesStatsGameTypes(t *testing.T) {
	gdb := newTestDB(t)

	// Game type 2 is valid for cards but not for stats pages.
	ctx := newGetCtx("/v1/players/stats?season_id=52&league_id=37&pos_group=C&game_type_id=2", premiumUser())
	PlayerStats(gdb)(ctx)
	assertStatus(t, ctx, fasthttp.StatusBadRequest)

	ctx = newGetCtx("/v1/players/stats?season_id=52&league_id=37&pos_group=C&game_type_id=3", premiumUser())
	PlayerStats(gdb)(ctx)
	assertStatus(t, ctx, fasthttp.StatusOK)
}
