package handlers

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/valyala/fasthttp"

	dbpkg "statsheet/internal/db"
	"statsheet/internal/http/middleware"
)

func TestPublicPlayerCardsServesDefaultsWithoutAuth(t *testing.T) {
	gdb := newTestDB(t)
	now := time.Now()
	rows := []dbpkg.PlayerCard{
		{SeasonID: 53, LeagueID: 37, GameTypeID: 1, PlayerID: 1, PosGroup: "C",
			PlayerName: sptr("Current Center"), LastUpdated: &now},
		// Wrong position and older season must be filtered out.
		{SeasonID: 53, LeagueID: 37, GameTypeID: 1, PlayerID: 2, PosGroup: "D",
			PlayerName: sptr("Current Defender"), LastUpdated: &now},
		{SeasonID: 52, LeagueID: 37, GameTypeID: 1, PlayerID: 3, PosGroup: "C",
			PlayerName: sptr("Last Season Center"), LastUpdated: &now},
	}
	if err := gdb.Create(&rows).Error; err != nil {
		t.Fatalf("seed players_page: %v", err)
	}

	ctx := newGetCtx("/v1/public/cards/player", nil)
	PublicPlayerCards(gdb, nil)(ctx)
	assertStatus(t, ctx, fasthttp.StatusOK)

	env := decodePage(t, ctx)
	if env.Total != 1 || env.PageSize != publicPageSize || env.PageNumber != 1 {
		t.Errorf("envelope = %+v, want one current-season Center on page 1", env)
	}

	var cards []struct {
		Header struct {
			Title string `json:"title"`
		} `json:"header"`
	}
	if err := json.Unmarshal(env.Data, &cards); err != nil {
		t.Fatalf("decode cards: %v", err)
	}
	if len(cards) != 1 || cards[0].Header.Title != "Current Center" {
		t.Errorf("got %+v, want only the season-53 Center", cards)
	}
}

func TestPublicPlayerCardsBehindOptionalAuth(t *testing.T) {
	gdb := newTestDB(t)
	now := time.Now()
	row := dbpkg.PlayerCard{
		SeasonID: 53, LeagueID: 37, GameTypeID: 1, PlayerID: 9, PosGroup: "C",
		PlayerName: sptr("Current Center"), LastUpdated: &now,
	}
	if err := gdb.Create(&row).Error; err != nil {
		t.Fatalf("seed players_page: %v", err)
	}

	user := createDBUser(t, gdb, "pub@example.com")
	token, err := dbpkg.CreateSession(gdb, user, time.Hour)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	// The production chain: OptionalAuth in front of the public route.
	handler := middleware.OptionalAuth(gdb)(PublicPlayerCards(gdb, nil))

	ctx := newGetCtx("/v1/public/cards/player", nil)
	ctx.Request.Header.SetCookie(middleware.SessionCookie, token)
	handler(ctx)
	assertStatus(t, ctx, fasthttp.StatusOK)
	if env := decodePage(t, ctx); env.Total != 1 {
		t.Errorf("signed-in total = %d, want 1", env.Total)
	}

	ctx = newGetCtx("/v1/public/cards/player", nil)
	handler(ctx)
	assertStatus(t, ctx, fasthttp.StatusOK)
	if env := decodePage(t, ctx); env.Total != 1 {
		t.Errorf("anonymous total = %d, want 1", env.Total)
	}
}

func TestPublicTeamCardsEmptySeason(t *testing.T) {
	gdb := newTestDB(t)

	ctx := newGetCtx("/v1/public/cards/team", nil)
	PublicTeamCards(gdb, nil)(ctx)
	assertStatus(t, ctx, fasthttp.StatusOK)

	env := decodePage(t, ctx)
	if env.Total != 0 || env.LastUpdated != na {
		t.Errorf("envelope = %+v, want empty page with lastUpdated %q", env, na)
	}
}
