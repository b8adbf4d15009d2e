package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/scrimhub/scrimhub/models"
)

var (
	ErrScrimTeamNotFound     = errors.New("scrim team registration not found")
	ErrScrimTeamConflict     = errors.New("team is already registered for this scrim")
	ErrScrimPlayerNotFound   = errors.New("scrim roster entry not found")
	ErrScrimPlayerConflict   = errors.New("player is already on a roster for this scrim")
	ErrRosterReferenceBroken = errors.New("roster references unknown scrim, team or player")
)

// RosterRepository manages scrim participation: which teams entered a scrim
// and which players each team fields for it.
type RosterRepository interface {
	RegisterTeam(ctx context.Context, st *models.ScrimTeam) error
	UnregisterTeam(ctx context.Context, scrimID, teamID int) error
	ListScrimTeams(ctx context.Context, scrimID int) ([]models.ScrimTeam, error)

	AddPlayer(ctx context.Context, sp *models.ScrimPlayer) error
	RemovePlayer(ctx context.Context, scrimID, playerID int) error
	ListScrimPlayers(ctx context.Context, scrimID int) ([]models.ScrimPlayer, error)
}

type postgresRosterRepository struct {
	db *sql.DB
}

func NewPostgresRosterRepository(db *sql.DB) RosterRepository {
	return &postgresRosterRepository{db: db}
}

func (r *postgresRosterRepository) RegisterTeam(ctx context.Context, st *models.ScrimTeam) error {
	query := `
		INSERT INTO scrim_teams (scrim_id, team_id, team_name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, st.ScrimID, st.TeamID, st.TeamName).
		Scan(&st.ID, &st.CreatedAt)
	return r.handleRosterError(err, ErrScrimTeamConflict)
}

func (r *postgresRosterRepository) UnregisterTeam(ctx context.Context, scrimID, teamID int) error {
	query := `DELETE FROM scrim_teams WHERE scrim_id = $1 AND team_id = $2`
	result, err := r.db.ExecContext(ctx, query, scrimID, teamID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrScrimTeamNotFound)
}

func (r *postgresRosterRepository) ListScrimTeams(ctx context.Context, scrimID int) ([]models.ScrimTeam, error) {
	query := `
		SELECT id, scrim_id, team_id, team_name, created_at
		FROM scrim_teams
		WHERE scrim_id = $1
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, scrimID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]models.ScrimTeam, 0)
	for rows.Next() {
		var st models.ScrimTeam
		if scanErr := rows.Scan(&st.ID, &st.ScrimID, &st.TeamID, &st.TeamName, &st.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, st)
	}
	return teams, rows.Err()
}

func (r *postgresRosterRepository) AddPlayer(ctx context.Context, sp *models.ScrimPlayer) error {
	query := `
		INSERT INTO scrim_players (scrim_id, team_id, player_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, sp.ScrimID, sp.TeamID, sp.PlayerID).
		Scan(&sp.ID, &sp.CreatedAt)
	return r.handleRosterError(err, ErrScrimPlayerConflict)
}

// RemovePlayer drops a roster entry. Historical match_player_stats rows are
// untouched: past results keep pointing at whatever team the player played
// for at the time.
func (r *postgresRosterRepository) RemovePlayer(ctx context.Context, scrimID, playerID int) error {
	query := `DELETE FROM scrim_players WHERE scrim_id = $1 AND player_id = $2`
	result, err := r.db.ExecContext(ctx, query, scrimID, playerID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrScrimPlayerNotFound)
}

func (r *postgresRosterRepository) ListScrimPlayers(ctx context.Context, scrimID int) ([]models.ScrimPlayer, error) {
	query := `
		SELECT id, scrim_id, team_id, player_id, created_at
		FROM scrim_players
		WHERE scrim_id = $1
		ORDER BY team_id ASC, created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, scrimID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]models.ScrimPlayer, 0)
	for rows.Next() {
		var sp models.ScrimPlayer
		if scanErr := rows.Scan(&sp.ID, &sp.ScrimID, &sp.TeamID, &sp.PlayerID, &sp.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		players = append(players, sp)
	}
	return players, rows.Err()
}

func (r *postgresRosterRepository) handleRosterError(err error, conflictErr error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505": // unique_violation
			return conflictErr
		case "23503": // foreign_key_violation
			return ErrRosterReferenceBroken
		}
	}
	return err
}
