package models

import "time"

type ScrimStatus string

const (
	ScrimStatusScheduled ScrimStatus = "scheduled"
	ScrimStatusOngoing   ScrimStatus = "ongoing"
	ScrimStatusCompleted ScrimStatus = "completed"
	ScrimStatusCanceled  ScrimStatus = "canceled"
)

type Scrim struct {
	ID          int         `json:"id" db:"id"`
	Title       string      `json:"title" db:"title"`
	OrganizerID int         `json:"organizer_id" db:"organizer_id"`
	ScheduledAt time.Time   `json:"scheduled_at" db:"scheduled_at"`
	MatchCount  int         `json:"match_count" db:"match_count"`
	Status      ScrimStatus `json:"status" db:"status"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`

	Organizer *User       `json:"organizer,omitempty" db:"-"`
	Teams     []ScrimTeam `json:"teams,omitempty" db:"-"`
	Matches   []*Match    `json:"matches,omitempty" db:"-"`
}

// ScrimTeam binds a team to a scrim. TeamName is a snapshot taken at
// registration time so old scrim pages survive later renames.
type ScrimTeam struct {
	ID        int       `json:"id" db:"id"`
	ScrimID   int       `json:"scrim_id" db:"scrim_id"`
	TeamID    int       `json:"team_id" db:"team_id"`
	TeamName  string    `json:"team_name" db:"team_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ScrimPlayer is a roster entry: the authoritative list of who may receive
// stats for the scrim's matches.
type ScrimPlayer struct {
	ID        int       `json:"id" db:"id"`
	ScrimID   int       `json:"scrim_id" db:"scrim_id"`
	TeamID    int       `json:"team_id" db:"team_id"`
	PlayerID  int       `json:"player_id" db:"player_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Player *User `json:"player,omitempty" db:"-"`
}
