package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/scrimhub/scrimhub/models"
)

var (
	ErrMatchNotFound     = errors.New("match not found")
	ErrMatchScrimInvalid = errors.New("match scrim conflict or invalid")
)

type MatchRepository interface {
	CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByScrim(ctx context.Context, scrimID int) ([]*models.Match, error)
	CompleteMatch(ctx context.Context, exec SQLExecutor, id int, mapName string) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

// CreateBatch inserts the pending matches of a freshly created scrim, one
// per configured match slot. Meant to run inside the scrim creation
// transaction.
func (r *postgresMatchRepository) CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches (scrim_id, sequence, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	for _, match := range matches {
		err := executor.QueryRowContext(ctx, query, match.ScrimID, match.Sequence, match.Status).
			Scan(&match.ID, &match.CreatedAt)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
				return ErrMatchScrimInvalid
			}
			return err
		}
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `
		SELECT id, scrim_id, sequence, map_name, status, created_at
		FROM matches
		WHERE id = $1`

	match := &models.Match{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&match.ID, &match.ScrimID, &match.Sequence, &match.MapName, &match.Status, &match.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByScrim(ctx context.Context, scrimID int) ([]*models.Match, error) {
	query := `
		SELECT id, scrim_id, sequence, map_name, status, created_at
		FROM matches
		WHERE scrim_id = $1
		ORDER BY sequence ASC`

	rows, err := r.db.QueryContext(ctx, query, scrimID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var match models.Match
		if scanErr := rows.Scan(
			&match.ID, &match.ScrimID, &match.Sequence, &match.MapName, &match.Status, &match.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, &match)
	}
	return matches, rows.Err()
}

// CompleteMatch marks the match completed and records the map it was played
// on. In the result submission transaction this is the final statement, so a
// failed stats batch never leaves a completed match behind.
func (r *postgresMatchRepository) CompleteMatch(ctx context.Context, exec SQLExecutor, id int, mapName string) error {
	executor := r.getExecutor(exec)
	query := `UPDATE matches SET status = $1, map_name = $2 WHERE id = $3`
	result, err := executor.ExecContext(ctx, query, models.MatchStatusCompleted, mapName, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus) error {
	executor := r.getExecutor(exec)
	query := `UPDATE matches SET status = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}
