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
	ErrRecruitmentPostNotFound = errors.New("recruitment post not found")
	ErrJoinRequestNotFound     = errors.New("join request not found")
	ErrJoinRequestConflict     = errors.New("applicant already has a request for this post")
)

type ListPostsFilter struct {
	Kind   *models.RecruitmentKind
	Status *models.RecruitmentStatus
	Limit  int
	Offset int
}

type RecruitmentRepository interface {
	CreatePost(ctx context.Context, post *models.RecruitmentPost) error
	GetPostByID(ctx context.Context, id int) (*models.RecruitmentPost, error)
	ListPosts(ctx context.Context, filter ListPostsFilter) ([]*models.RecruitmentPost, error)
	UpdatePost(ctx context.Context, post *models.RecruitmentPost) error
	DeletePost(ctx context.Context, id int) error

	CreateJoinRequest(ctx context.Context, req *models.JoinRequest) error
	GetJoinRequestByID(ctx context.Context, id int) (*models.JoinRequest, error)
	ListJoinRequestsByPost(ctx context.Context, postID int) ([]*models.JoinRequest, error)
	UpdateJoinRequestStatus(ctx context.Context, id int, status models.JoinRequestStatus) error
}

type postgresRecruitmentRepository struct {
	db *sql.DB
}

func NewPostgresRecruitmentRepository(db *sql.DB) RecruitmentRepository {
	return &postgresRecruitmentRepository{db: db}
}

func (r *postgresRecruitmentRepository) CreatePost(ctx context.Context, post *models.RecruitmentPost) error {
	query := `
		INSERT INTO recruitment_posts (author_id, kind, title, body, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		post.AuthorID, post.Kind, post.Title, post.Body, post.Status,
	).Scan(&post.ID, &post.CreatedAt)
}

func (r *postgresRecruitmentRepository) GetPostByID(ctx context.Context, id int) (*models.RecruitmentPost, error) {
	query := `
		SELECT id, author_id, kind, title, body, status, created_at
		FROM recruitment_posts
		WHERE id = $1`

	post := &models.RecruitmentPost{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID, &post.AuthorID, &post.Kind, &post.Title, &post.Body, &post.Status, &post.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecruitmentPostNotFound
		}
		return nil, err
	}
	return post, nil
}

func (r *postgresRecruitmentRepository) ListPosts(ctx context.Context, filter ListPostsFilter) ([]*models.RecruitmentPost, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT id, author_id, kind, title, body, status, created_at
		FROM recruitment_posts
		WHERE 1=1`)

	args := []interface{}{}
	placeholderIndex := 1

	if filter.Kind != nil {
		queryBuilder.WriteString(" AND kind = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *filter.Kind)
		placeholderIndex++
	}

	if filter.Status != nil {
		queryBuilder.WriteString(" AND status = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *filter.Status)
		placeholderIndex++
	}

	queryBuilder.WriteString(" ORDER BY created_at DESC")

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

	posts := make([]*models.RecruitmentPost, 0)
	for rows.Next() {
		var post models.RecruitmentPost
		if scanErr := rows.Scan(
			&post.ID, &post.AuthorID, &post.Kind, &post.Title, &post.Body, &post.Status, &post.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		posts = append(posts, &post)
	}
	return posts, rows.Err()
}

func (r *postgresRecruitmentRepository) UpdatePost(ctx context.Context, post *models.RecruitmentPost) error {
	query := `UPDATE recruitment_posts SET title = $1, body = $2, status = $3 WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, post.Title, post.Body, post.Status, post.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRecruitmentPostNotFound)
}

func (r *postgresRecruitmentRepository) DeletePost(ctx context.Context, id int) error {
	query := `DELETE FROM recruitment_posts WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRecruitmentPostNotFound)
}

func (r *postgresRecruitmentRepository) CreateJoinRequest(ctx context.Context, req *models.JoinRequest) error {
	query := `
		INSERT INTO join_requests (post_id, applicant_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, req.PostID, req.ApplicantID, req.Status).
		Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrJoinRequestConflict
		}
		return err
	}
	return nil
}

func (r *postgresRecruitmentRepository) GetJoinRequestByID(ctx context.Context, id int) (*models.JoinRequest, error) {
	query := `
		SELECT id, post_id, applicant_id, status, created_at
		FROM join_requests
		WHERE id = $1`

	req := &models.JoinRequest{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&req.ID, &req.PostID, &req.ApplicantID, &req.Status, &req.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJoinRequestNotFound
		}
		return nil, err
	}
	return req, nil
}

func (r *postgresRecruitmentRepository) ListJoinRequestsByPost(ctx context.Context, postID int) ([]*models.JoinRequest, error) {
	query := `
		SELECT id, post_id, applicant_id, status, created_at
		FROM join_requests
		WHERE post_id = $1
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]*models.JoinRequest, 0)
	for rows.Next() {
		var req models.JoinRequest
		if scanErr := rows.Scan(&req.ID, &req.PostID, &req.ApplicantID, &req.Status, &req.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		requests = append(requests, &req)
	}
	return requests, rows.Err()
}

func (r *postgresRecruitmentRepository) UpdateJoinRequestStatus(ctx context.Context, id int, status models.JoinRequestStatus) error {
	query := `UPDATE join_requests SET status = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrJoinRequestNotFound)
}
