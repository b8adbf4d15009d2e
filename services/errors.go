package services

import "errors"

// Shared errors used across services and the HTTP error mapping.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed   = errors.New("validation failed")
	ErrPasswordTooShort   = errors.New("password is too short")
	ErrTeamNameRequired   = errors.New("team name is required")
	ErrScrimTitleRequired = errors.New("scrim title is required")
	ErrInvalidMatchCount  = errors.New("scrim match count must be between 1 and 12")
	ErrNegativeKills      = errors.New("kill count cannot be negative")
	ErrInvalidPlacement   = errors.New("placement must be a non-negative integer")
	ErrNoTeamResults      = errors.New("at least one team result is required")
	ErrMapNameRequired    = errors.New("map name is required")

	// Roster / reference integrity
	ErrTeamNotInScrim    = errors.New("team is not registered for this scrim")
	ErrPlayerNotOnRoster = errors.New("player is not on the team's roster for this scrim")

	// Conflicts
	ErrUserEmailConflict    = errors.New("email address is already in use")
	ErrUserNicknameConflict = errors.New("nickname is already in use")
	ErrTeamNameConflict     = errors.New("team name is already in use")
	ErrAlreadyRegistered    = errors.New("already registered for this scrim")
	ErrDuplicateApplication = errors.New("already applied to this post")

	// Authentication / authorization
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")
	ErrOwnerActionForbidden   = errors.New("only the team owner can perform this action")

	// Entity-specific not-found (more context than the generic ErrNotFound)
	ErrUserNotFound            = errors.New("user not found")
	ErrTeamNotFound            = errors.New("team not found")
	ErrScrimNotFound           = errors.New("scrim not found")
	ErrMatchNotFound           = errors.New("match not found")
	ErrRecruitmentPostNotFound = errors.New("recruitment post not found")
	ErrJoinRequestNotFound     = errors.New("join request not found")
)
