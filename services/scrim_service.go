package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/scrimhub/scrimhub/models"
	"github.com/scrimhub/scrimhub/repositories"
)

const maxMatchesPerScrim = 12

type CreateScrimInput struct {
	Title       string    `json:"title"`
	ScheduledAt time.Time `json:"scheduled_at"`
	MatchCount  int       `json:"match_count"`
	OrganizerID int       `json:"-"`
}

type ScrimService interface {
	CreateScrim(ctx context.Context, input CreateScrimInput) (*models.Scrim, error)
	GetScrimByID(ctx context.Context, id int) (*models.Scrim, error)
	ListScrims(ctx context.Context, filter repositories.ListScrimsFilter) ([]*models.Scrim, error)
	CancelScrim(ctx context.Context, scrimID, currentUserID int) error

	RegisterTeam(ctx context.Context, scrimID, teamID int) (*models.ScrimTeam, error)
	UnregisterTeam(ctx context.Context, scrimID, teamID int) error
	AddRosterPlayer(ctx context.Context, scrimID, teamID, playerID int) (*models.ScrimPlayer, error)
	RemoveRosterPlayer(ctx context.Context, scrimID, playerID int) error
	GetRoster(ctx context.Context, scrimID int) ([]models.ScrimPlayer, error)
}

type scrimService struct {
	db         *sql.DB
	scrimRepo  repositories.ScrimRepository
	matchRepo  repositories.MatchRepository
	rosterRepo repositories.RosterRepository
	teamRepo   repositories.TeamRepository
	userRepo   repositories.UserRepository
	logger     *slog.Logger
}

func NewScrimService(
	db *sql.DB,
	scrimRepo repositories.ScrimRepository,
	matchRepo repositories.MatchRepository,
	rosterRepo repositories.RosterRepository,
	teamRepo repositories.TeamRepository,
	userRepo repositories.UserRepository,
	logger *slog.Logger,
) ScrimService {
	return &scrimService{
		db:         db,
		scrimRepo:  scrimRepo,
		matchRepo:  matchRepo,
		rosterRepo: rosterRepo,
		teamRepo:   teamRepo,
		userRepo:   userRepo,
		logger:     logger,
	}
}

// CreateScrim creates the scrim together with its pending matches, one per
// configured slot, in a single transaction. A scrim never gains or loses
// matches afterwards.
func (s *scrimService) CreateScrim(ctx context.Context, input CreateScrimInput) (*models.Scrim, error) {
	if input.Title == "" {
		return nil, ErrScrimTitleRequired
	}
	if input.MatchCount < 1 || input.MatchCount > maxMatchesPerScrim {
		return nil, ErrInvalidMatchCount
	}

	scrim := &models.Scrim{
		Title:       input.Title,
		OrganizerID: input.OrganizerID,
		ScheduledAt: input.ScheduledAt,
		MatchCount:  input.MatchCount,
		Status:      models.ScrimStatusScheduled,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	var txErr error
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("rollback failed during scrim creation", slog.Any("error", rbErr))
			}
		}
	}()

	if txErr = s.scrimRepo.Create(ctx, tx, scrim); txErr != nil {
		return nil, fmt.Errorf("failed to create scrim: %w", txErr)
	}

	matches := make([]*models.Match, 0, input.MatchCount)
	for i := 1; i <= input.MatchCount; i++ {
		matches = append(matches, &models.Match{
			ScrimID:  scrim.ID,
			Sequence: i,
			Status:   models.MatchStatusPending,
		})
	}
	if txErr = s.matchRepo.CreateBatch(ctx, tx, matches); txErr != nil {
		return nil, fmt.Errorf("failed to create matches for scrim: %w", txErr)
	}

	if txErr = tx.Commit(); txErr != nil {
		return nil, fmt.Errorf("failed to commit scrim creation: %w", txErr)
	}

	scrim.Matches = matches
	s.logger.Info("scrim created",
		slog.Int("scrim_id", scrim.ID),
		slog.Int("matches", len(matches)),
	)
	return scrim, nil
}

func (s *scrimService) GetScrimByID(ctx context.Context, id int) (*models.Scrim, error) {
	scrim, err := s.scrimRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrScrimNotFound) {
			return nil, ErrScrimNotFound
		}
		return nil, fmt.Errorf("failed to get scrim %d: %w", id, err)
	}

	teams, err := s.rosterRepo.ListScrimTeams(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for scrim %d: %w", id, err)
	}
	matches, err := s.matchRepo.ListByScrim(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for scrim %d: %w", id, err)
	}

	scrim.Teams = teams
	scrim.Matches = matches
	return scrim, nil
}

func (s *scrimService) ListScrims(ctx context.Context, filter repositories.ListScrimsFilter) ([]*models.Scrim, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	scrims, err := s.scrimRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list scrims: %w", err)
	}
	return scrims, nil
}

func (s *scrimService) CancelScrim(ctx context.Context, scrimID, currentUserID int) error {
	scrim, err := s.scrimRepo.GetByID(ctx, scrimID)
	if err != nil {
		if errors.Is(err, repositories.ErrScrimNotFound) {
			return ErrScrimNotFound
		}
		return fmt.Errorf("failed to get scrim %d: %w", scrimID, err)
	}
	if scrim.OrganizerID != currentUserID {
		return ErrForbiddenOperation
	}
	if scrim.Status == models.ScrimStatusCompleted {
		return fmt.Errorf("%w: completed scrims cannot be canceled", ErrValidationFailed)
	}
	return s.scrimRepo.UpdateStatus(ctx, nil, scrimID, models.ScrimStatusCanceled)
}

func (s *scrimService) RegisterTeam(ctx context.Context, scrimID, teamID int) (*models.ScrimTeam, error) {
	if _, err := s.scrimRepo.GetByID(ctx, scrimID); err != nil {
		if errors.Is(err, repositories.ErrScrimNotFound) {
			return nil, ErrScrimNotFound
		}
		return nil, fmt.Errorf("failed to get scrim %d: %w", scrimID, err)
	}

	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}

	st := &models.ScrimTeam{
		ScrimID:  scrimID,
		TeamID:   teamID,
		TeamName: team.Name, // snapshot, survives later renames
	}
	if err := s.rosterRepo.RegisterTeam(ctx, st); err != nil {
		if errors.Is(err, repositories.ErrScrimTeamConflict) {
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("failed to register team %d for scrim %d: %w", teamID, scrimID, err)
	}
	return st, nil
}

func (s *scrimService) UnregisterTeam(ctx context.Context, scrimID, teamID int) error {
	if err := s.rosterRepo.UnregisterTeam(ctx, scrimID, teamID); err != nil {
		if errors.Is(err, repositories.ErrScrimTeamNotFound) {
			return ErrTeamNotInScrim
		}
		return fmt.Errorf("failed to unregister team %d from scrim %d: %w", teamID, scrimID, err)
	}
	return nil
}

// AddRosterPlayer puts a player on a team's roster for one scrim. The team
// must already be registered; the roster is what gates who can receive
// match stats later.
func (s *scrimService) AddRosterPlayer(ctx context.Context, scrimID, teamID, playerID int) (*models.ScrimPlayer, error) {
	scrimTeams, err := s.rosterRepo.ListScrimTeams(ctx, scrimID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for scrim %d: %w", scrimID, err)
	}
	registered := false
	for _, st := range scrimTeams {
		if st.TeamID == teamID {
			registered = true
			break
		}
	}
	if !registered {
		return nil, ErrTeamNotInScrim
	}

	if _, err := s.userRepo.GetByID(ctx, playerID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to check player %d: %w", playerID, err)
	}

	sp := &models.ScrimPlayer{
		ScrimID:  scrimID,
		TeamID:   teamID,
		PlayerID: playerID,
	}
	if err := s.rosterRepo.AddPlayer(ctx, sp); err != nil {
		if errors.Is(err, repositories.ErrScrimPlayerConflict) {
			return nil, fmt.Errorf("%w: player %d", ErrAlreadyRegistered, playerID)
		}
		return nil, fmt.Errorf("failed to add player %d to scrim %d roster: %w", playerID, scrimID, err)
	}
	return sp, nil
}

// RemoveRosterPlayer deletes the roster entry only. Stats the player already
// earned in the scrim's completed matches stay untouched.
func (s *scrimService) RemoveRosterPlayer(ctx context.Context, scrimID, playerID int) error {
	if err := s.rosterRepo.RemovePlayer(ctx, scrimID, playerID); err != nil {
		if errors.Is(err, repositories.ErrScrimPlayerNotFound) {
			return ErrPlayerNotOnRoster
		}
		return fmt.Errorf("failed to remove player %d from scrim %d roster: %w", playerID, scrimID, err)
	}
	return nil
}

func (s *scrimService) GetRoster(ctx context.Context, scrimID int) ([]models.ScrimPlayer, error) {
	players, err := s.rosterRepo.ListScrimPlayers(ctx, scrimID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster for scrim %d: %w", scrimID, err)
	}
	return players, nil
}
