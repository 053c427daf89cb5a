package handlers

import (
	"strings"

	dbpkg "statsheet/internal/db"
)

// Card shapes consumed by the frontend card grids. Field names are
// camelCase on the wire.

type CardHeader struct {
	Title    string `json:"title"`
	Subtitle []Item `json:"subtitle"`
}

type CardBanner struct {
	OverallPercentile any     `json:"overallPercentile"`
	Tier              *string `json:"tier"`
	LogoPath          *string `json:"logoPath"`
}

type CardData struct {
	Header      CardHeader `json:"header"`
	Banner      CardBanner `json:"banner"`
	HeaderStats []Item     `json:"headerStats"`
	Ratings     []Item     `json:"ratings"`
	Stats       []Item     `json:"stats"`
	TeamColor   string     `json:"teamColor"`
}

const (
	logoBaseURL      = "https://spreadsheet-hockey-logos.s3.us-east-1.amazonaws.com/"
	defaultTeamColor = "#1e293b"
)

// logoPath builds the team logo URL; logos are keyed by team name
// with URL-encoded spaces.
func logoPath(teamName *string) *string {
	if teamName == nil || *teamName == "" {
		return nil
	}
	url := logoBaseURL + strings.ReplaceAll(*teamName, " ", "%20") + ".png"
	return &url
}

func playerCardData(row dbpkg.PlayerCard) CardData {
	return CardData{
		Header: CardHeader{
			Title: strOr(row.PlayerName, na),
			Subtitle: []Item{
				{Label: "Position", Value: row.PosGroup},
				{Label: "Record", Value: record(row.Wins, row.Losses, row.OTLosses)},
				{Label: "Contract", Value: contractMillions(row.Contract)},
			},
		},
		Banner: CardBanner{
			OverallPercentile: naPercentile(row.WARPercentile),
			Tier:              row.Tier,
			LogoPath:          logoPath(row.TeamName),
		},
		HeaderStats: []Item{
			{Label: "P", Value: naInt(row.Points)},
			{Label: "G", Value: naInt(row.Goals)},
			{Label: "A", Value: naInt(row.Assists)},
		},
		Ratings: []Item{
			{Label: "OFFENSE", Value: naPercentile(row.WAROffensePct)},
			{Label: "DEFENSE", Value: naPercentile(row.WARDefensePct)},
			{Label: "TEAMMATES", Value: naPercentile(row.TeamPercentile)},
			{Label: "OPPONENTS", Value: naPercentile(row.SOSPercentile)},
		},
		Stats: []Item{
			{Label: "iOFF", Value: naRatioPct(row.IOff)},
			{Label: "xG", Value: naRound(row.XG, 1)},
			{Label: "xA", Value: naRound(row.XA, 1)},
			{Label: "GF", Value: naInt(row.GoalsFor)},
			{Label: "iDEF", Value: naRatioPct(row.IDef)},
			{Label: "TAKE", Value: naInt(row.Takeaways)},
			{Label: "INT", Value: naInt(row.Intercpts)},
			{Label: "GA", Value: naInt(row.GoalsAgn)},
		},
		TeamColor: strOr(row.TeamColor, defaultTeamColor),
	}
}

func goalieCardData(row dbpkg.GoalieCard) CardData {
	return CardData{
		Header: CardHeader{
			Title: strOr(row.PlayerName, na),
			Subtitle: []Item{
				{Label: "Position", Value: "G"},
				{Label: "Record", Value: record(row.Wins, row.Losses, row.OTLosses)},
				{Label: "Contract", Value: contractMillions(row.Contract)},
			},
		},
		Banner: CardBanner{
			OverallPercentile: naPercentile(row.OverallPercentile),
			Tier:              row.Tier,
			LogoPath:          logoPath(row.TeamName),
		},
		HeaderStats: []Item{
			{Label: "SV%", Value: naRound(row.SavePct, 3)},
			{Label: "GAA", Value: naRound(row.GAA, 2)},
		},
		Ratings: []Item{
			{Label: "GSAX", Value: naPercentile(row.GSAxPercentile)},
			{Label: "DEFENSE", Value: naPercentile(row.DefPercentile)},
			{Label: "TEAMMATES", Value: naPercentile(row.TeamPercentile)},
			{Label: "OPPONENTS", Value: naPercentile(row.SOSPercentile)},
		},
		Stats: []Item{
			{Label: "SA", Value: naInt(row.ShotsAgainst)},
			{Label: "GA", Value: naRound(row.GoalsAgainst, 0)},
			{Label: "xGA", Value: naRound(row.XGA, 1)},
			{Label: "GSAx", Value: naRound(row.GSAx, 1)},
			{Label: "SA/60", Value: naRound(row.ShotsPer60, 1)},
			{Label: "GA/60", Value: naRound(row.GAPer60, 1)},
			{Label: "xGA/60", Value: naRound(row.XGAPer60, 1)},
			{Label: "GSAx/60", Value: naRound(row.GSAxPer60, 1)},
		},
		TeamColor: strOr(row.TeamColor, defaultTeamColor),
	}
}

func teamCardData(row dbpkg.TeamCard) CardData {
	var points any = na
	if row.Wins != nil {
		var otl int64
		if row.OTLosses != nil {
			otl = *row.OTLosses
		}
		points = itoa(*row.Wins*2+otl) + " pts"
	}

	return CardData{
		Header: CardHeader{
			Title: strOr(row.TeamName, na),
			Subtitle: []Item{
				{Label: "Record", Value: record(row.Wins, row.Losses, row.OTLosses)},
				{Label: "Points", Value: points},
			},
		},
		Banner: CardBanner{
			OverallPercentile: naPercentile(row.OverallPercentile),
			Tier:              row.OverallTier,
			LogoPath:          logoPath(row.TeamFullName),
		},
		HeaderStats: []Item{
			{Label: "GF", Value: naRound(row.TotalGoals, 0)},
			{Label: "GA", Value: naRound(row.TotalGoalsAgainst, 0)},
		},
		Ratings: []Item{
			{Label: "OFFENSE", Value: naPercentile(row.OffensePercentile)},
			{Label: "DEFENSE", Value: naPercentile(row.DefensePercentile)},
			{Label: "GOALIES", Value: naPercentile(row.GoaliePercentile)},
			{Label: "OPPONENTS", Value: naPercentile(row.OpponentsPercentile)},
		},
		Stats: []Item{
			{Label: "xG", Value: naRound(row.TotalXG, 1)},
			{Label: "GF/60", Value: naRound(row.GoalsPer60, 1)},
			{Label: "xGA", Value: naRound(row.TotalOpponentXG, 1)},
			{Label: "GA/60", Value: naRound(row.GAPer60, 1)},
		},
		TeamColor: strOr(row.TeamColor, defaultTeamColor),
	}
}
