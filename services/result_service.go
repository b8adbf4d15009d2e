package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/scrimhub/scrimhub/live"
	"github.com/scrimhub/scrimhub/models"
	"github.com/scrimhub/scrimhub/repositories"
	"github.com/scrimhub/scrimhub/scoring"
)

// TeamResultInput is one team's entry of a match result form: final
// placement plus per-player kills keyed by player ID.
type TeamResultInput struct {
	TeamID    int         `json:"team_id"`
	Placement int         `json:"placement"`
	Kills     map[int]int `json:"kills"`
}

type SubmitMatchResultInput struct {
	MapName string            `json:"map_name"`
	Teams   []TeamResultInput `json:"teams"`
}

type ResultService interface {
	SubmitMatchResult(ctx context.Context, matchID int, input SubmitMatchResultInput) (*models.Match, error)
	GetMatchResult(ctx context.Context, matchID int) (*models.Match, error)
}

type resultService struct {
	db         *sql.DB
	matchRepo  repositories.MatchRepository
	rosterRepo repositories.RosterRepository
	statsRepo  repositories.StatsRepository
	hub        *live.Hub
	logger     *slog.Logger
}

func NewResultService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	rosterRepo repositories.RosterRepository,
	statsRepo repositories.StatsRepository,
	hub *live.Hub,
	logger *slog.Logger,
) ResultService {
	return &resultService{
		db:         db,
		matchRepo:  matchRepo,
		rosterRepo: rosterRepo,
		statsRepo:  statsRepo,
		hub:        hub,
		logger:     logger,
	}
}

// SubmitMatchResult validates and persists the authoritative result of one
// match: one MatchTeamStats row per team, one MatchPlayerStats row per
// player, then the match itself flips to completed. All writes happen in one
// transaction with the status transition last, so a failed batch never
// leaves a completed match without its stats. Resubmission replaces the
// previous result wholesale, which is the supported correction mechanism:
// rows for teams or players dropped from a corrected scoresheet do not
// survive it.
func (s *resultService) SubmitMatchResult(ctx context.Context, matchID int, input SubmitMatchResultInput) (*models.Match, error) {
	if err := validateResultInput(input); err != nil {
		return nil, err
	}

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}

	if err := s.checkRoster(ctx, match.ScrimID, input.Teams); err != nil {
		return nil, err
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
				s.logger.Error("rollback failed after result submission error",
					slog.Int("match_id", matchID), slog.Any("error", rbErr))
			}
		}
	}()

	// Clear the previous submission first so stale rows for dropped teams
	// or players cannot outlive a correction.
	if txErr = s.statsRepo.DeletePlayerStatsByMatch(ctx, tx, matchID); txErr != nil {
		return nil, fmt.Errorf("failed to clear player stats for match %d: %w", matchID, txErr)
	}
	if txErr = s.statsRepo.DeleteTeamStatsByMatch(ctx, tx, matchID); txErr != nil {
		return nil, fmt.Errorf("failed to clear team stats for match %d: %w", matchID, txErr)
	}

	teamStats := make([]*models.MatchTeamStats, 0, len(input.Teams))
	playerStats := make([]*models.MatchPlayerStats, 0)

	for _, team := range input.Teams {
		teamKills := 0
		for _, kills := range team.Kills {
			teamKills += kills
		}

		breakdown := scoring.ComputePoints(team.Placement, teamKills)
		ts := &models.MatchTeamStats{
			MatchID:         matchID,
			TeamID:          team.TeamID,
			Placement:       team.Placement,
			PlacementPoints: breakdown.PlacementPoints,
			TeamKills:       teamKills,
			TotalPoints:     breakdown.TotalPoints,
			IsBooyah:        scoring.IsBooyah(team.Placement),
		}
		if txErr = s.statsRepo.UpsertTeamStats(ctx, tx, ts); txErr != nil {
			return nil, fmt.Errorf("failed to save team stats for team %d: %w", team.TeamID, txErr)
		}
		teamStats = append(teamStats, ts)

		// Deterministic write order keeps concurrent submissions for the
		// same match from deadlocking on row locks.
		playerIDs := make([]int, 0, len(team.Kills))
		for playerID := range team.Kills {
			playerIDs = append(playerIDs, playerID)
		}
		sort.Ints(playerIDs)

		for _, playerID := range playerIDs {
			ps := &models.MatchPlayerStats{
				MatchID:  matchID,
				PlayerID: playerID,
				TeamID:   team.TeamID,
				Kills:    team.Kills[playerID],
			}
			if txErr = s.statsRepo.UpsertPlayerStats(ctx, tx, ps); txErr != nil {
				return nil, fmt.Errorf("failed to save player stats for player %d: %w", playerID, txErr)
			}
			playerStats = append(playerStats, ps)
		}
	}

	if txErr = s.matchRepo.CompleteMatch(ctx, tx, matchID, input.MapName); txErr != nil {
		return nil, fmt.Errorf("failed to complete match %d: %w", matchID, txErr)
	}

	if txErr = tx.Commit(); txErr != nil {
		return nil, fmt.Errorf("failed to commit match result: %w", txErr)
	}

	match.Status = models.MatchStatusCompleted
	match.MapName = &input.MapName
	match.TeamStats = teamStats
	match.PlayerStats = playerStats

	s.logger.Info("match result saved",
		slog.Int("match_id", matchID),
		slog.Int("scrim_id", match.ScrimID),
		slog.Int("teams", len(teamStats)),
		slog.Int("players", len(playerStats)),
	)

	if s.hub != nil {
		s.hub.BroadcastToScrim(match.ScrimID, live.EventMatchResultSaved, match)
	}

	return match, nil
}

func (s *resultService) GetMatchResult(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}

	teamStats, err := s.statsRepo.GetTeamStatsByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load team stats for match %d: %w", matchID, err)
	}
	playerStats, err := s.statsRepo.GetPlayerStatsByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load player stats for match %d: %w", matchID, err)
	}

	match.TeamStats = teamStats
	match.PlayerStats = playerStats
	return match, nil
}

func validateResultInput(input SubmitMatchResultInput) error {
	if input.MapName == "" {
		return ErrMapNameRequired
	}
	if len(input.Teams) == 0 {
		return ErrNoTeamResults
	}
	for _, team := range input.Teams {
		if team.TeamID <= 0 {
			return fmt.Errorf("%w: missing team id", ErrValidationFailed)
		}
		if team.Placement < 0 {
			return ErrInvalidPlacement
		}
		for playerID, kills := range team.Kills {
			if playerID <= 0 {
				return fmt.Errorf("%w: missing player id", ErrValidationFailed)
			}
			if kills < 0 {
				return ErrNegativeKills
			}
		}
	}
	return nil
}

// checkRoster rejects teams that never registered for the scrim and players
// that are not on their team's roster for it. Stats rows must only ever
// reference the scrim's own participants.
func (s *resultService) checkRoster(ctx context.Context, scrimID int, teams []TeamResultInput) error {
	scrimTeams, err := s.rosterRepo.ListScrimTeams(ctx, scrimID)
	if err != nil {
		return fmt.Errorf("failed to load scrim teams for scrim %d: %w", scrimID, err)
	}
	registered := make(map[int]bool, len(scrimTeams))
	for _, st := range scrimTeams {
		registered[st.TeamID] = true
	}

	scrimPlayers, err := s.rosterRepo.ListScrimPlayers(ctx, scrimID)
	if err != nil {
		return fmt.Errorf("failed to load scrim roster for scrim %d: %w", scrimID, err)
	}
	rosterTeamByPlayer := make(map[int]int, len(scrimPlayers))
	for _, sp := range scrimPlayers {
		rosterTeamByPlayer[sp.PlayerID] = sp.TeamID
	}

	for _, team := range teams {
		if !registered[team.TeamID] {
			return fmt.Errorf("%w: team %d", ErrTeamNotInScrim, team.TeamID)
		}
		for playerID := range team.Kills {
			if rosterTeamByPlayer[playerID] != team.TeamID {
				return fmt.Errorf("%w: player %d for team %d", ErrPlayerNotOnRoster, playerID, team.TeamID)
			}
		}
	}
	return nil
}
