package models

import "time"

type RecruitmentKind string

const (
	KindTeamLooking   RecruitmentKind = "team_looking"   // team recruiting players
	KindPlayerLooking RecruitmentKind = "player_looking" // player looking for a team
)

type RecruitmentStatus string

const (
	RecruitmentOpen   RecruitmentStatus = "open"
	RecruitmentClosed RecruitmentStatus = "closed"
)

type RecruitmentPost struct {
	ID        int               `json:"id" db:"id"`
	AuthorID  int               `json:"author_id" db:"author_id"`
	Kind      RecruitmentKind   `json:"kind" db:"kind"`
	Title     string            `json:"title" db:"title"`
	Body      string            `json:"body" db:"body"`
	Status    RecruitmentStatus `json:"status" db:"status"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`

	Author *User `json:"author,omitempty" db:"-"`
}

type JoinRequestStatus string

const (
	JoinRequestPending  JoinRequestStatus = "pending"
	JoinRequestAccepted JoinRequestStatus = "accepted"
	JoinRequestDeclined JoinRequestStatus = "declined"
)

type JoinRequest struct {
	ID          int               `json:"id" db:"id"`
	PostID      int               `json:"post_id" db:"post_id"`
	ApplicantID int               `json:"applicant_id" db:"applicant_id"`
	Status      JoinRequestStatus `json:"status" db:"status"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`

	Applicant *User `json:"applicant,omitempty" db:"-"`
}
