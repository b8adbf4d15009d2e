package models

import "time"

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleTeam   UserRole = "team"
	RolePlayer UserRole = "player"
)

type User struct {
	ID           int       `json:"id" db:"id"`
	Nickname     string    `json:"nickname" db:"nickname"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         UserRole  `json:"role" db:"role"`
	IGN          *string   `json:"ign,omitempty" db:"ign"`
	GameUID      *string   `json:"game_uid,omitempty" db:"game_uid"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	AvatarKey *string `json:"-" db:"avatar_key"`
	AvatarURL *string `json:"avatar_url,omitempty" db:"-"`
}
