package db

import (
	"time"

	"gorm.io/datatypes"
)

// The stat tables are written by the data pipeline, not by this API;
// the API only reads them. Every pair (table, table_free) is a full
// structural clone: the _free variant holds the weekly snapshot served
// to non-subscribers and is replaced wholesale by RefreshFreeTier.

// PlayerCard is one row of the players card page, keyed by
// (season, league, game type, player, position group).
type PlayerCard struct {
	SeasonID   int    `gorm:"primaryKey" json:"season_id"`
	LeagueID   int    `gorm:"primaryKey" json:"league_id"`
	GameTypeID int    `gorm:"primaryKey" json:"game_type_id"`
	PlayerID   int64  `gorm:"primaryKey" json:"player_id"`
	PosGroup   string `gorm:"primaryKey;size:10" json:"pos_group"`

	PlayerName *string `gorm:"size:100" json:"player_name"`

	Wins     *int64 `json:"wins"`
	Losses   *int64 `json:"losses"`
	OTLosses *int64 `gorm:"column:ot_losses" json:"ot_losses"`

	Contract      *int64   `json:"contract"`
	WARPercentile *float64 `gorm:"column:war_percentile" json:"war_percentile"`
	Tier          *string  `json:"tier"`

	TeamName  *string `gorm:"size:200" json:"team_name"`
	TeamColor *string `json:"team_color"`

	Points  *int64 `json:"points"`
	Goals   *int64 `json:"goals"`
	Assists *int64 `json:"assists"`

	WAROffensePct  *float64 `gorm:"column:war_offense_pct" json:"war_offense_pct"`
	WARDefensePct  *float64 `gorm:"column:war_defense_pct" json:"war_defense_pct"`
	TeamPercentile *float64 `json:"team_percentile"`
	SOSPercentile  *float64 `gorm:"column:sos_percentile" json:"sos_percentile"`

	IOff      *float64 `gorm:"column:ioff" json:"ioff"`
	XG        *float64 `gorm:"column:xg" json:"xg"`
	XA        *float64 `gorm:"column:xa" json:"xa"`
	GoalsFor  *int64   `gorm:"column:gf" json:"gf"`
	IDef      *float64 `gorm:"column:idef" json:"idef"`
	Takeaways *int64   `json:"takeaways"`
	Intercpts *int64   `gorm:"column:interceptions" json:"interceptions"`
	GoalsAgn  *int64   `gorm:"column:ga" json:"ga"`

	LastUpdated *time.Time `json:"last_updated"`
	DataWeekID  *int       `json:"data_week_id"`
}

func (PlayerCard) TableName() string { return "players_page" }

// GoalieCard is one row of the goalies card page.
type GoalieCard struct {
	SeasonID   int   `gorm:"primaryKey" json:"season_id"`
	LeagueID   int   `gorm:"primaryKey" json:"league_id"`
	GameTypeID int   `gorm:"primaryKey" json:"game_type_id"`
	PlayerID   int64 `gorm:"primaryKey" json:"player_id"`

	PlayerName *string `gorm:"size:100" json:"player_name"`

	Wins     *int64 `json:"wins"`
	Losses   *int64 `json:"losses"`
	OTLosses *int64 `gorm:"column:ot_losses" json:"ot_losses"`

	Contract          *int64   `json:"contract"`
	OverallPercentile *float64 `json:"overall_percentile"`
	Tier              *string  `json:"tier"`

	TeamName  *string `gorm:"size:200" json:"team_name"`
	TeamColor *string `json:"team_color"`

	SavePct *float64 `gorm:"column:save_pct" json:"save_pct"`
	GAA     *float64 `gorm:"column:gaa" json:"gaa"`

	GSAxPercentile *float64 `gorm:"column:gsax_percentile" json:"gsax_percentile"`
	DefPercentile  *float64 `gorm:"column:def_percentile" json:"def_percentile"`
	TeamPercentile *float64 `json:"team_percentile"`
	SOSPercentile  *float64 `gorm:"column:sos_percentile" json:"sos_percentile"`

	ShotsAgainst *int64   `json:"shots_against"`
	GoalsAgainst *float64 `json:"goals_against"`
	XGA          *float64 `gorm:"column:xga" json:"xga"`
	GSAx         *float64 `gorm:"column:gsax" json:"gsax"`
	ShotsPer60   *float64 `gorm:"column:shots_per_60" json:"shots_per_60"`
	GAPer60      *float64 `gorm:"column:ga_per_60" json:"ga_per_60"`
	XGAPer60     *float64 `gorm:"column:xga_per_60" json:"xga_per_60"`
	GSAxPer60    *float64 `gorm:"column:gsax_per_60" json:"gsax_per_60"`

	LastUpdated *time.Time `json:"last_updated"`
	DataWeekID  *int       `json:"data_week_id"`
}

func (GoalieCard) TableName() string { return "goalies_page" }

// TeamCard is one row of the teams card page.
type TeamCard struct {
	SeasonID   int   `gorm:"primaryKey" json:"season_id"`
	LeagueID   int   `gorm:"primaryKey" json:"league_id"`
	GameTypeID int   `gorm:"primaryKey" json:"game_type_id"`
	TeamID     int64 `gorm:"primaryKey" json:"team_id"`

	TeamName     *string `gorm:"size:100" json:"team_name"`
	TeamFullName *string `gorm:"size:200" json:"team_full_name"`
	TeamColor    *string `json:"team_color"`

	Wins     *int64 `json:"wins"`
	Losses   *int64 `json:"losses"`
	OTLosses *int64 `gorm:"column:ot_losses" json:"ot_losses"`

	OffensePercentile   *float64 `json:"offense_percentile"`
	DefensePercentile   *float64 `json:"defense_percentile"`
	GoaliePercentile    *float64 `json:"goalie_percentile"`
	OpponentsPercentile *float64 `json:"opponents_percentile"`
	OverallPercentile   *float64 `json:"overall_percentile"`
	OverallTier         *string  `json:"overall_tier"`

	TotalGoals        *float64 `json:"total_goals"`
	TotalGoalsAgainst *float64 `json:"total_goals_against"`
	TotalXG           *float64 `gorm:"column:total_xg" json:"total_xg"`
	GoalsPer60        *float64 `gorm:"column:goals_per_60" json:"goals_per_60"`
	TotalOpponentXG   *float64 `gorm:"column:total_opponent_xg" json:"total_opponent_xg"`
	GAPer60           *float64 `gorm:"column:ga_per_60" json:"ga_per_60"`

	LastUpdated *time.Time `json:"last_updated"`
	DataWeekID  *int       `json:"data_week_id"`
}

func (TeamCard) TableName() string { return "teams_page" }

// PlayerStatsRow is one row of the sortable skater stats table.
type PlayerStatsRow struct {
	SeasonID   int    `gorm:"primaryKey" json:"season_id"`
	LeagueID   int    `gorm:"primaryKey" json:"league_id"`
	GameTypeID int    `gorm:"primaryKey" json:"game_type_id"`
	PlayerID   int64  `gorm:"primaryKey" json:"player_id"`
	PosGroup   string `gorm:"primaryKey;size:10" json:"pos_group"`

	PlayerName *string  `json:"player_name"`
	TeamName   *string  `json:"team_name"`
	Contract   *float64 `json:"contract"`

	Win  *int `json:"win"`
	Loss *int `json:"loss"`
	OTL  *int `gorm:"column:otl" json:"otl"`

	Points    *int `json:"points"`
	Goals     *int `json:"goals"`
	Assists   *int `json:"assists"`
	PlusMinus *int `json:"plus_minus"`

	XG     *float64 `gorm:"column:xg" json:"xg"`
	XA     *float64 `gorm:"column:xa" json:"xa"`
	GAx    *float64 `gorm:"column:gax" json:"gax"`
	AAx    *float64 `gorm:"column:aax" json:"aax"`
	IOff   *float64 `gorm:"column:ioff" json:"ioff"`
	OffGAR *float64 `gorm:"column:off_gar" json:"off_gar"`

	Intercpts *int     `gorm:"column:interceptions" json:"interceptions"`
	Takeaways *int     `json:"takeaways"`
	Blocks    *int     `json:"blocks"`
	IDef      *float64 `gorm:"column:idef" json:"idef"`
	DefGAR    *float64 `gorm:"column:def_gar" json:"def_gar"`

	OverallRating  *float64 `json:"overall_rating"`
	OffenseRating  *float64 `json:"offense_rating"`
	DefenseRating  *float64 `json:"defense_rating"`
	TeammateRating *float64 `json:"teammate_rating"`
	OpponentRating *float64 `json:"opponent_rating"`

	LastUpdated *time.Time `json:"last_updated"`
}

func (PlayerStatsRow) TableName() string { return "players_stats_page" }

// GoalieStatsRow is one row of the sortable goalie stats table.
type GoalieStatsRow struct {
	SeasonID   int    `gorm:"primaryKey" json:"season_id"`
	LeagueID   int    `gorm:"primaryKey" json:"league_id"`
	GameTypeID int    `gorm:"primaryKey" json:"game_type_id"`
	PlayerID   int64  `gorm:"primaryKey" json:"player_id"`
	PosGroup   string `gorm:"primaryKey;size:10" json:"pos_group"`

	PlayerName *string  `json:"player_name"`
	TeamName   *string  `json:"team_name"`
	Contract   *float64 `json:"contract"`

	Win  *int `json:"win"`
	Loss *int `json:"loss"`
	OTL  *int `gorm:"column:otl" json:"otl"`

	ShotsAgainst   *int     `json:"shots_against"`
	XSh            *float64 `gorm:"column:xsh" json:"xsh"`
	ShotsPrevented *float64 `json:"shots_prevented"`
	GoalsAgainst   *int     `json:"goals_against"`
	XGA            *float64 `gorm:"column:xga" json:"xga"`
	GSAx           *float64 `gorm:"column:gsax" json:"gsax"`
	GSAA           *float64 `gorm:"column:gsaa" json:"gsaa"`
	Shutouts       *int     `json:"shutouts"`

	OverallRating  *float64 `json:"overall_rating"`
	TeammateRating *float64 `json:"teammate_rating"`
	OpponentRating *float64 `json:"opponent_rating"`

	LastUpdated *time.Time `json:"last_updated"`
}

func (GoalieStatsRow) TableName() string { return "goalie_stats_page" }

// BiddingPackageRow is one free-agent signup joined with the player's
// most recent season, loaded by the data pipeline. Unlike the tiered
// stat tables it has no snapshot clone: the one-time purchase either
// grants the live table or nothing.
type BiddingPackageRow struct {
	SignupID string `gorm:"primaryKey;size:64" json:"signup_id"`
	PlayerID int64  `gorm:"index" json:"player_id"`

	PlayerName *string `gorm:"size:100" json:"player_name"`
	Position   *string `gorm:"size:10" json:"position"`
	PosGroup   *string `gorm:"size:10" json:"pos_group"`
	Status     *string `gorm:"size:20" json:"status"`
	Server     *string `gorm:"size:20" json:"server"`
	Console    *string `gorm:"size:30" json:"console"`

	SignupTimestamp *time.Time `json:"signup_timestamp"`
	IsRostered      bool       `json:"is_rostered"`
	CurrentTeamID   *int64     `json:"current_team_id"`
	CurrentTeamName *string    `gorm:"size:200" json:"current_team_name"`

	LastSeasonID   *int    `json:"last_season_id"`
	LastLeagueID   *int    `json:"last_league_id"`
	LastLeagueName *string `gorm:"size:50" json:"last_league_name"`
	LastPosGroup   *string `gorm:"size:10" json:"last_pos_group"`

	GamesPlayed *int `json:"games_played"`
	Wins        *int `json:"wins"`
	Losses      *int `json:"losses"`
	OTLosses    *int `gorm:"column:ot_losses" json:"ot_losses"`
	Points      *int `json:"points"`

	WARPercentile  *float64 `gorm:"column:war_percentile" json:"war_percentile"`
	TeamPercentile *float64 `json:"team_percentile"`
	SOSPercentile  *float64 `gorm:"column:sos_percentile" json:"sos_percentile"`
}

func (BiddingPackageRow) TableName() string { return "bidding_package" }

// PlayoffOdds holds Monte Carlo playoff probabilities per team.
// SeedProbabilities is JSONB so leagues with any number of playoff
// seeds fit without schema changes; the seed_1..8 columns remain for
// older clients.
type PlayoffOdds struct {
	SeasonID int   `gorm:"primaryKey" json:"season_id"`
	LeagueID int   `gorm:"primaryKey" json:"league_id"`
	TeamID   int64 `gorm:"primaryKey" json:"team_id"`

	FullTeamName *string `gorm:"size:200" json:"full_team_name"`
	TeamName     *string `gorm:"size:100" json:"team_name"`
	ConferenceID *int    `json:"conference_id"`

	Points         *int `json:"points"`
	Wins           *int `json:"wins"`
	Losses         *int `json:"losses"`
	OTLosses       *int `gorm:"column:ot_losses" json:"ot_losses"`
	GamesRemaining *int `json:"games_remaining"`

	PlayoffOdds *float64 `gorm:"column:playoff_odds" json:"playoff_odds"`

	SeedProbabilities datatypes.JSONMap `gorm:"type:json" json:"seed_probabilities"`

	Seed1Prob *float64 `gorm:"column:seed_1_prob" json:"seed_1_prob"`
	Seed2Prob *float64 `gorm:"column:seed_2_prob" json:"seed_2_prob"`
	Seed3Prob *float64 `gorm:"column:seed_3_prob" json:"seed_3_prob"`
	Seed4Prob *float64 `gorm:"column:seed_4_prob" json:"seed_4_prob"`
	Seed5Prob *float64 `gorm:"column:seed_5_prob" json:"seed_5_prob"`
	Seed6Prob *float64 `gorm:"column:seed_6_prob" json:"seed_6_prob"`
	Seed7Prob *float64 `gorm:"column:seed_7_prob" json:"seed_7_prob"`
	Seed8Prob *float64 `gorm:"column:seed_8_prob" json:"seed_8_prob"`

	NumSimulations *int       `json:"num_simulations"`
	LastUpdated    *time.Time `json:"last_updated"`
}

func (PlayoffOdds) TableName() string { return "playoff_odds" }

// TeamSOS holds strength-of-schedule rows per team, week and day of
// week. week_id 0 aggregates the season; game_dow -1 aggregates the
// week (0=Sunday .. 6=Saturday otherwise).
type TeamSOS struct {
	SeasonID   int   `gorm:"primaryKey" json:"season_id"`
	LeagueID   int   `gorm:"primaryKey" json:"league_id"`
	GameTypeID int   `gorm:"primaryKey" json:"game_type_id"`
	WeekID     int   `gorm:"primaryKey" json:"week_id"`
	GameDOW    int   `gorm:"primaryKey;column:game_dow" json:"game_dow"`
	TeamID     int64 `gorm:"primaryKey" json:"team_id"`

	TeamName *string `json:"team_name"`

	Win  *int `json:"win"`
	Loss *int `json:"loss"`
	OTL  *int `gorm:"column:otl" json:"otl"`

	TeammateWinPct *float64 `gorm:"column:teammate_win_pct" json:"teammate_win_pct"`
	OpponentWinPct *float64 `gorm:"column:opponent_win_pct" json:"opponent_win_pct"`
	TeammateRating *float64 `json:"teammate_rating"`
	OpponentRating *float64 `json:"opponent_rating"`
}

func (TeamSOS) TableName() string { return "team_sos" }
