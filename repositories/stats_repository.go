package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/scrimhub/scrimhub/models"
)

var (
	ErrStatsMatchInvalid  = errors.New("stats reference an unknown match")
	ErrStatsTeamInvalid   = errors.New("stats reference an unknown team")
	ErrStatsPlayerInvalid = errors.New("stats reference an unknown player")
)

// StatsRepository persists per-match team and player results and exposes
// the full-history scans the leaderboards are built from.
type StatsRepository interface {
	UpsertTeamStats(ctx context.Context, exec SQLExecutor, stats *models.MatchTeamStats) error
	UpsertPlayerStats(ctx context.Context, exec SQLExecutor, stats *models.MatchPlayerStats) error
	DeleteTeamStatsByMatch(ctx context.Context, exec SQLExecutor, matchID int) error
	DeletePlayerStatsByMatch(ctx context.Context, exec SQLExecutor, matchID int) error
	GetTeamStatsByMatch(ctx context.Context, matchID int) ([]*models.MatchTeamStats, error)
	GetPlayerStatsByMatch(ctx context.Context, matchID int) ([]*models.MatchPlayerStats, error)
	GetAllTeamStats(ctx context.Context) ([]*models.MatchTeamStats, error)
	GetAllPlayerStats(ctx context.Context) ([]*models.MatchPlayerStats, error)
}

type postgresStatsRepository struct {
	db *sql.DB
}

func NewPostgresStatsRepository(db *sql.DB) StatsRepository {
	return &postgresStatsRepository{db: db}
}

func (r *postgresStatsRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

// UpsertTeamStats writes the team's result for a match, overwriting any
// previous submission for the same (match, team) pair.
func (r *postgresStatsRepository) UpsertTeamStats(ctx context.Context, exec SQLExecutor, stats *models.MatchTeamStats) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO match_team_stats
			(match_id, team_id, placement, placement_points, team_kills, total_points, is_booyah, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (match_id, team_id) DO UPDATE SET
			placement = EXCLUDED.placement,
			placement_points = EXCLUDED.placement_points,
			team_kills = EXCLUDED.team_kills,
			total_points = EXCLUDED.total_points,
			is_booyah = EXCLUDED.is_booyah,
			updated_at = EXCLUDED.updated_at
		RETURNING id`

	if stats.UpdatedAt.IsZero() {
		stats.UpdatedAt = time.Now()
	}
	err := executor.QueryRowContext(ctx, query,
		stats.MatchID, stats.TeamID, stats.Placement, stats.PlacementPoints,
		stats.TeamKills, stats.TotalPoints, stats.IsBooyah, stats.UpdatedAt,
	).Scan(&stats.ID)

	return r.handleStatsError(err)
}

// UpsertPlayerStats writes one player's kills for a match. TeamID snapshots
// the team the player played for, it is never rewritten on transfers.
func (r *postgresStatsRepository) UpsertPlayerStats(ctx context.Context, exec SQLExecutor, stats *models.MatchPlayerStats) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO match_player_stats (match_id, player_id, team_id, kills, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (match_id, player_id) DO UPDATE SET
			team_id = EXCLUDED.team_id,
			kills = EXCLUDED.kills,
			updated_at = EXCLUDED.updated_at
		RETURNING id`

	if stats.UpdatedAt.IsZero() {
		stats.UpdatedAt = time.Now()
	}
	err := executor.QueryRowContext(ctx, query,
		stats.MatchID, stats.PlayerID, stats.TeamID, stats.Kills, stats.UpdatedAt,
	).Scan(&stats.ID)

	return r.handleStatsError(err)
}

// DeleteTeamStatsByMatch clears a match's team results. Deleting zero rows
// is not an error: a first submission has nothing to clear.
func (r *postgresStatsRepository) DeleteTeamStatsByMatch(ctx context.Context, exec SQLExecutor, matchID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM match_team_stats WHERE match_id = $1`, matchID)
	return err
}

func (r *postgresStatsRepository) DeletePlayerStatsByMatch(ctx context.Context, exec SQLExecutor, matchID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM match_player_stats WHERE match_id = $1`, matchID)
	return err
}

func (r *postgresStatsRepository) scanTeamStats(rowScanner interface{ Scan(...interface{}) error }) (*models.MatchTeamStats, error) {
	var s models.MatchTeamStats
	err := rowScanner.Scan(
		&s.ID, &s.MatchID, &s.TeamID, &s.Placement, &s.PlacementPoints,
		&s.TeamKills, &s.TotalPoints, &s.IsBooyah, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *postgresStatsRepository) GetTeamStatsByMatch(ctx context.Context, matchID int) ([]*models.MatchTeamStats, error) {
	query := `
		SELECT id, match_id, team_id, placement, placement_points, team_kills, total_points, is_booyah, updated_at
		FROM match_team_stats
		WHERE match_id = $1
		ORDER BY placement ASC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make([]*models.MatchTeamStats, 0)
	for rows.Next() {
		s, scanErr := r.scanTeamStats(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *postgresStatsRepository) GetPlayerStatsByMatch(ctx context.Context, matchID int) ([]*models.MatchPlayerStats, error) {
	query := `
		SELECT id, match_id, player_id, team_id, kills, updated_at
		FROM match_player_stats
		WHERE match_id = $1
		ORDER BY kills DESC, player_id ASC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make([]*models.MatchPlayerStats, 0)
	for rows.Next() {
		var s models.MatchPlayerStats
		if scanErr := rows.Scan(&s.ID, &s.MatchID, &s.PlayerID, &s.TeamID, &s.Kills, &s.UpdatedAt); scanErr != nil {
			return nil, scanErr
		}
		stats = append(stats, &s)
	}
	return stats, rows.Err()
}

// GetAllTeamStats returns the full result history. Leaderboards recompute
// from this scan on every request, there is no persisted ranking state.
func (r *postgresStatsRepository) GetAllTeamStats(ctx context.Context) ([]*models.MatchTeamStats, error) {
	query := `
		SELECT id, match_id, team_id, placement, placement_points, team_kills, total_points, is_booyah, updated_at
		FROM match_team_stats
		ORDER BY match_id ASC, placement ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make([]*models.MatchTeamStats, 0)
	for rows.Next() {
		s, scanErr := r.scanTeamStats(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *postgresStatsRepository) GetAllPlayerStats(ctx context.Context) ([]*models.MatchPlayerStats, error) {
	query := `
		SELECT id, match_id, player_id, team_id, kills, updated_at
		FROM match_player_stats
		ORDER BY match_id ASC, player_id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make([]*models.MatchPlayerStats, 0)
	for rows.Next() {
		var s models.MatchPlayerStats
		if scanErr := rows.Scan(&s.ID, &s.MatchID, &s.PlayerID, &s.TeamID, &s.Kills, &s.UpdatedAt); scanErr != nil {
			return nil, scanErr
		}
		stats = append(stats, &s)
	}
	return stats, rows.Err()
}

func (r *postgresStatsRepository) handleStatsError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code == "23503" { // foreign_key_violation
			switch pqErr.Constraint {
			case "match_team_stats_match_id_fkey", "match_player_stats_match_id_fkey":
				return ErrStatsMatchInvalid
			case "match_team_stats_team_id_fkey", "match_player_stats_team_id_fkey":
				return ErrStatsTeamInvalid
			case "match_player_stats_player_id_fkey":
				return ErrStatsPlayerInvalid
			}
		}
	}
	return err
}
