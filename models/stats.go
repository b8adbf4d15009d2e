package models

import "time"

// MatchTeamStats is the authoritative per-team result of one match.
// Invariants: TotalPoints == PlacementPoints + TeamKills,
// IsBooyah == (Placement == 1). At most one row per (match, team).
type MatchTeamStats struct {
	ID              int       `json:"id" db:"id"`
	MatchID         int       `json:"match_id" db:"match_id"`
	TeamID          int       `json:"team_id" db:"team_id"`
	Placement       int       `json:"placement" db:"placement"`
	PlacementPoints int       `json:"placement_points" db:"placement_points"`
	TeamKills       int       `json:"team_kills" db:"team_kills"`
	TotalPoints     int       `json:"total_points" db:"total_points"`
	IsBooyah        bool      `json:"is_booyah" db:"is_booyah"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`

	TeamName string `json:"team_name,omitempty" db:"-"`
}

// MatchPlayerStats is one player's kills in one match. TeamID is the team
// the player played for in that match, not their current roster team.
type MatchPlayerStats struct {
	ID        int       `json:"id" db:"id"`
	MatchID   int       `json:"match_id" db:"match_id"`
	PlayerID  int       `json:"player_id" db:"player_id"`
	TeamID    int       `json:"team_id" db:"team_id"`
	Kills     int       `json:"kills" db:"kills"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	PlayerNickname string `json:"player_nickname,omitempty" db:"-"`
}
