package models

// TeamRankingRow is one row of the global team leaderboard. Rank is
// positional in the sorted result, it is never stored.
type TeamRankingRow struct {
	Rank          int     `json:"rank"`
	TeamID        int     `json:"team_id"`
	TeamName      string  `json:"team_name"`
	MatchesPlayed int     `json:"matches_played"`
	TotalKills    int     `json:"total_kills"`
	TotalPoints   int     `json:"total_points"`
	Booyahs       int     `json:"booyahs"`
	AvgPoints     float64 `json:"avg_points"`
}

type PlayerRankingRow struct {
	Rank          int     `json:"rank"`
	PlayerID      int     `json:"player_id"`
	Nickname      string  `json:"nickname"`
	TeamName      string  `json:"team_name,omitempty"`
	MatchesPlayed int     `json:"matches_played"`
	TotalKills    int     `json:"total_kills"`
	AvgKills      float64 `json:"avg_kills"`
}
