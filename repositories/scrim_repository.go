package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/scrimhub/scrimhub/models"
)

var (
	ErrScrimNotFound         = errors.New("scrim not found")
	ErrScrimOrganizerInvalid = errors.New("invalid scrim organizer reference")
)

type ListScrimsFilter struct {
	OrganizerID *int
	Status      *models.ScrimStatus
	Limit       int
	Offset      int
}

type ScrimRepository interface {
	Create(ctx context.Context, exec SQLExecutor, scrim *models.Scrim) error
	GetByID(ctx context.Context, id int) (*models.Scrim, error)
	List(ctx context.Context, filter ListScrimsFilter) ([]*models.Scrim, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.ScrimStatus) error
	Delete(ctx context.Context, id int) error
}

type postgresScrimRepository struct {
	db *sql.DB
}

func NewPostgresScrimRepository(db *sql.DB) ScrimRepository {
	return &postgresScrimRepository{db: db}
}

func (r *postgresScrimRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresScrimRepository) Create(ctx context.Context, exec SQLExecutor, scrim *models.Scrim) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO scrims (title, organizer_id, scheduled_at, match_count, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		scrim.Title, scrim.OrganizerID, scrim.ScheduledAt, scrim.MatchCount, scrim.Status,
	).Scan(&scrim.ID, &scrim.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrScrimOrganizerInvalid
		}
		return err
	}
	return nil
}

func (r *postgresScrimRepository) GetByID(ctx context.Context, id int) (*models.Scrim, error) {
	query := `
		SELECT id, title, organizer_id, scheduled_at, match_count, status, created_at
		FROM scrims
		WHERE id = $1`

	scrim := &models.Scrim{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&scrim.ID, &scrim.Title, &scrim.OrganizerID, &scrim.ScheduledAt,
		&scrim.MatchCount, &scrim.Status, &scrim.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScrimNotFound
		}
		return nil, err
	}
	return scrim, nil
}

func (r *postgresScrimRepository) List(ctx context.Context, filter ListScrimsFilter) ([]*models.Scrim, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT id, title, organizer_id, scheduled_at, match_count, status, created_at
		FROM scrims
		WHERE 1=1`)

	args := []interface{}{}
	placeholderIndex := 1

	if filter.OrganizerID != nil {
		queryBuilder.WriteString(" AND organizer_id = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *filter.OrganizerID)
		placeholderIndex++
	}

	if filter.Status != nil {
		queryBuilder.WriteString(" AND status = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *filter.Status)
		placeholderIndex++
	}

	queryBuilder.WriteString(" ORDER BY scheduled_at DESC")

	if filter.Limit > 0 {
		queryBuilder.WriteString(" LIMIT $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, filter.Limit)
		placeholderIndex++

		queryBuilder.WriteString(" OFFSET $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scrims := make([]*models.Scrim, 0)
	for rows.Next() {
		var scrim models.Scrim
		if scanErr := rows.Scan(
			&scrim.ID, &scrim.Title, &scrim.OrganizerID, &scrim.ScheduledAt,
			&scrim.MatchCount, &scrim.Status, &scrim.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		scrims = append(scrims, &scrim)
	}
	return scrims, rows.Err()
}

func (r *postgresScrimRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.ScrimStatus) error {
	executor := r.getExecutor(exec)
	query := `UPDATE scrims SET status = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrScrimNotFound)
}

func (r *postgresScrimRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM scrims WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrScrimNotFound)
}
