package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/scrimhub/scrimhub/models"
	"github.com/scrimhub/scrimhub/repositories"
	"github.com/scrimhub/scrimhub/storage"
)

type CreateTeamInput struct {
	Name        string `json:"name"`
	Tag         string `json:"tag"`
	OwnerUserID int    `json:"-"`
}

type UpdateTeamInput struct {
	Name *string `json:"name,omitempty"`
	Tag  *string `json:"tag,omitempty"`
}

type AddMemberInput struct {
	UserID int                   `json:"user_id"`
	Role   models.TeamMemberRole `json:"role"`
}

type TeamService interface {
	CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error)
	GetTeamByID(ctx context.Context, id int) (*models.Team, error)
	ListTeams(ctx context.Context, limit, offset int) ([]*models.Team, error)
	UpdateTeam(ctx context.Context, teamID, currentUserID int, input UpdateTeamInput) (*models.Team, error)
	AddMember(ctx context.Context, teamID, currentUserID int, input AddMemberInput) (*models.TeamMember, error)
	RemoveMember(ctx context.Context, teamID, currentUserID, userID int) error
	UploadLogo(ctx context.Context, teamID, currentUserID int, contentType string, file io.Reader) (*models.Team, error)
}

type teamService struct {
	teamRepo repositories.TeamRepository
	userRepo repositories.UserRepository
	uploader storage.FileUploader
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	userRepo repositories.UserRepository,
	uploader storage.FileUploader,
) TeamService {
	return &teamService{
		teamRepo: teamRepo,
		userRepo: userRepo,
		uploader: uploader,
	}
}

func (s *teamService) CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	if input.Name == "" {
		return nil, ErrTeamNameRequired
	}
	if len(input.Tag) > 5 {
		return nil, fmt.Errorf("%w: team tag is at most 5 characters", ErrValidationFailed)
	}

	team := &models.Team{
		Name:        input.Name,
		Tag:         input.Tag,
		OwnerUserID: input.OwnerUserID,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	// The owner joins their own roster immediately, defaulting to IGL.
	member := &models.TeamMember{
		TeamID: team.ID,
		UserID: input.OwnerUserID,
		Role:   models.MemberRoleIGL,
	}
	if err := s.teamRepo.AddMember(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to add owner to team %d: %w", team.ID, err)
	}
	team.Members = []models.TeamMember{*member}
	return team, nil
}

func (s *teamService) GetTeamByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", id, err)
	}

	members, err := s.teamRepo.ListMembers(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of team %d: %w", id, err)
	}
	team.Members = members

	s.populateLogoURL(team)
	return team, nil
}

func (s *teamService) ListTeams(ctx context.Context, limit, offset int) ([]*models.Team, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	teams, err := s.teamRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	for _, team := range teams {
		s.populateLogoURL(team)
	}
	return teams, nil
}

func (s *teamService) UpdateTeam(ctx context.Context, teamID, currentUserID int, input UpdateTeamInput) (*models.Team, error) {
	team, err := s.requireOwner(ctx, teamID, currentUserID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrTeamNameRequired
		}
		team.Name = *input.Name
	}
	if input.Tag != nil {
		if len(*input.Tag) > 5 {
			return nil, fmt.Errorf("%w: team tag is at most 5 characters", ErrValidationFailed)
		}
		team.Tag = *input.Tag
	}

	if err := s.teamRepo.Update(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, fmt.Errorf("failed to update team %d: %w", teamID, err)
	}
	s.populateLogoURL(team)
	return team, nil
}

func (s *teamService) AddMember(ctx context.Context, teamID, currentUserID int, input AddMemberInput) (*models.TeamMember, error) {
	if _, err := s.requireOwner(ctx, teamID, currentUserID); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByID(ctx, input.UserID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to check user %d: %w", input.UserID, err)
	}

	role := input.Role
	if role == "" {
		role = models.MemberRoleFlex
	}

	member := &models.TeamMember{
		TeamID: teamID,
		UserID: input.UserID,
		Role:   role,
	}
	if err := s.teamRepo.AddMember(ctx, member); err != nil {
		if errors.Is(err, repositories.ErrTeamMemberConflict) {
			return nil, fmt.Errorf("%w: user %d", ErrAlreadyRegistered, input.UserID)
		}
		return nil, fmt.Errorf("failed to add member to team %d: %w", teamID, err)
	}
	return member, nil
}

func (s *teamService) RemoveMember(ctx context.Context, teamID, currentUserID, userID int) error {
	team, err := s.GetTeamByID(ctx, teamID)
	if err != nil {
		return err
	}

	// The owner can remove anyone, a member can remove themselves.
	if team.OwnerUserID != currentUserID && currentUserID != userID {
		return ErrOwnerActionForbidden
	}
	if userID == team.OwnerUserID {
		return fmt.Errorf("%w: the owner cannot leave their own team", ErrForbiddenOperation)
	}

	if err := s.teamRepo.RemoveMember(ctx, teamID, userID); err != nil {
		if errors.Is(err, repositories.ErrTeamMemberNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to remove member %d from team %d: %w", userID, teamID, err)
	}
	return nil
}

func (s *teamService) UploadLogo(ctx context.Context, teamID, currentUserID int, contentType string, file io.Reader) (*models.Team, error) {
	team, err := s.requireOwner(ctx, teamID, currentUserID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("logos/team_%d", teamID)
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload logo for team %d: %w", teamID, err)
	}

	if err := s.teamRepo.UpdateLogoKey(ctx, teamID, &result.Key); err != nil {
		return nil, fmt.Errorf("failed to save logo key for team %d: %w", teamID, err)
	}

	team.LogoKey = &result.Key
	s.populateLogoURL(team)
	return team, nil
}

func (s *teamService) requireOwner(ctx context.Context, teamID, currentUserID int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}
	if team.OwnerUserID != currentUserID {
		return nil, ErrOwnerActionForbidden
	}
	return team, nil
}

func (s *teamService) populateLogoURL(team *models.Team) {
	if team.LogoKey != nil && s.uploader != nil {
		url := s.uploader.GetPublicURL(*team.LogoKey)
		team.LogoURL = &url
	}
}
