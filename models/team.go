package models

import "time"

type TeamMemberRole string

const (
	MemberRoleIGL     TeamMemberRole = "igl"
	MemberRoleRusher  TeamMemberRole = "rusher"
	MemberRoleSniper  TeamMemberRole = "sniper"
	MemberRoleSupport TeamMemberRole = "support"
	MemberRoleFlex    TeamMemberRole = "flex"
)

type Team struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Tag         string    `json:"tag" db:"tag"`
	OwnerUserID int       `json:"owner_user_id" db:"owner_user_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	Owner   *User        `json:"owner,omitempty" db:"-"`
	Members []TeamMember `json:"members,omitempty" db:"-"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`
}

type TeamMember struct {
	ID        int            `json:"id" db:"id"`
	TeamID    int            `json:"team_id" db:"team_id"`
	UserID    int            `json:"user_id" db:"user_id"`
	Role      TeamMemberRole `json:"role" db:"role"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`

	User *User `json:"user,omitempty" db:"-"`
}
