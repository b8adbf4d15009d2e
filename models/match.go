package models

import "time"

type MatchStatus string

const (
	MatchStatusPending   MatchStatus = "pending"
	MatchStatusOngoing   MatchStatus = "ongoing"
	MatchStatusCompleted MatchStatus = "completed"
)

type Match struct {
	ID        int         `json:"id" db:"id"`
	ScrimID   int         `json:"scrim_id" db:"scrim_id"`
	Sequence  int         `json:"sequence" db:"sequence"`
	MapName   *string     `json:"map_name,omitempty" db:"map_name"`
	Status    MatchStatus `json:"status" db:"status"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`

	TeamStats   []*MatchTeamStats   `json:"team_stats,omitempty" db:"-"`
	PlayerStats []*MatchPlayerStats `json:"player_stats,omitempty" db:"-"`
}
