package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/scrimhub/scrimhub/models"
	"github.com/scrimhub/scrimhub/repositories"
)

type CreatePostInput struct {
	Kind     models.RecruitmentKind `json:"kind"`
	Title    string                 `json:"title"`
	Body     string                 `json:"body"`
	AuthorID int                    `json:"-"`
}

type RecruitmentService interface {
	CreatePost(ctx context.Context, input CreatePostInput) (*models.RecruitmentPost, error)
	GetPostByID(ctx context.Context, id int) (*models.RecruitmentPost, error)
	ListPosts(ctx context.Context, filter repositories.ListPostsFilter) ([]*models.RecruitmentPost, error)
	ClosePost(ctx context.Context, postID, currentUserID int) error
	DeletePost(ctx context.Context, postID, currentUserID int) error

	Apply(ctx context.Context, postID, applicantID int) (*models.JoinRequest, error)
	ListApplications(ctx context.Context, postID, currentUserID int) ([]*models.JoinRequest, error)
	ResolveApplication(ctx context.Context, requestID, currentUserID int, accept bool) error
}

type recruitmentService struct {
	recruitmentRepo repositories.RecruitmentRepository
}

func NewRecruitmentService(recruitmentRepo repositories.RecruitmentRepository) RecruitmentService {
	return &recruitmentService{recruitmentRepo: recruitmentRepo}
}

func (s *recruitmentService) CreatePost(ctx context.Context, input CreatePostInput) (*models.RecruitmentPost, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: post title is required", ErrValidationFailed)
	}
	switch input.Kind {
	case models.KindTeamLooking, models.KindPlayerLooking:
	default:
		return nil, fmt.Errorf("%w: invalid post kind %q", ErrValidationFailed, input.Kind)
	}

	post := &models.RecruitmentPost{
		AuthorID: input.AuthorID,
		Kind:     input.Kind,
		Title:    input.Title,
		Body:     input.Body,
		Status:   models.RecruitmentOpen,
	}
	if err := s.recruitmentRepo.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create recruitment post: %w", err)
	}
	return post, nil
}

func (s *recruitmentService) GetPostByID(ctx context.Context, id int) (*models.RecruitmentPost, error) {
	post, err := s.recruitmentRepo.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecruitmentPostNotFound) {
			return nil, ErrRecruitmentPostNotFound
		}
		return nil, fmt.Errorf("failed to get recruitment post %d: %w", id, err)
	}
	return post, nil
}

func (s *recruitmentService) ListPosts(ctx context.Context, filter repositories.ListPostsFilter) ([]*models.RecruitmentPost, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	posts, err := s.recruitmentRepo.ListPosts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list recruitment posts: %w", err)
	}
	return posts, nil
}

func (s *recruitmentService) ClosePost(ctx context.Context, postID, currentUserID int) error {
	post, err := s.requireAuthor(ctx, postID, currentUserID)
	if err != nil {
		return err
	}
	post.Status = models.RecruitmentClosed
	if err := s.recruitmentRepo.UpdatePost(ctx, post); err != nil {
		return fmt.Errorf("failed to close recruitment post %d: %w", postID, err)
	}
	return nil
}

func (s *recruitmentService) DeletePost(ctx context.Context, postID, currentUserID int) error {
	if _, err := s.requireAuthor(ctx, postID, currentUserID); err != nil {
		return err
	}
	if err := s.recruitmentRepo.DeletePost(ctx, postID); err != nil {
		return fmt.Errorf("failed to delete recruitment post %d: %w", postID, err)
	}
	return nil
}

func (s *recruitmentService) Apply(ctx context.Context, postID, applicantID int) (*models.JoinRequest, error) {
	post, err := s.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Status != models.RecruitmentOpen {
		return nil, fmt.Errorf("%w: post is closed", ErrValidationFailed)
	}
	if post.AuthorID == applicantID {
		return nil, fmt.Errorf("%w: cannot apply to your own post", ErrValidationFailed)
	}

	req := &models.JoinRequest{
		PostID:      postID,
		ApplicantID: applicantID,
		Status:      models.JoinRequestPending,
	}
	if err := s.recruitmentRepo.CreateJoinRequest(ctx, req); err != nil {
		if errors.Is(err, repositories.ErrJoinRequestConflict) {
			return nil, ErrDuplicateApplication
		}
		return nil, fmt.Errorf("failed to apply to post %d: %w", postID, err)
	}
	return req, nil
}

func (s *recruitmentService) ListApplications(ctx context.Context, postID, currentUserID int) ([]*models.JoinRequest, error) {
	if _, err := s.requireAuthor(ctx, postID, currentUserID); err != nil {
		return nil, err
	}
	requests, err := s.recruitmentRepo.ListJoinRequestsByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications for post %d: %w", postID, err)
	}
	return requests, nil
}

func (s *recruitmentService) ResolveApplication(ctx context.Context, requestID, currentUserID int, accept bool) error {
	req, err := s.recruitmentRepo.GetJoinRequestByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrJoinRequestNotFound) {
			return ErrJoinRequestNotFound
		}
		return fmt.Errorf("failed to get join request %d: %w", requestID, err)
	}

	if _, err := s.requireAuthor(ctx, req.PostID, currentUserID); err != nil {
		return err
	}
	if req.Status != models.JoinRequestPending {
		return fmt.Errorf("%w: request already resolved", ErrValidationFailed)
	}

	status := models.JoinRequestDeclined
	if accept {
		status = models.JoinRequestAccepted
	}
	if err := s.recruitmentRepo.UpdateJoinRequestStatus(ctx, requestID, status); err != nil {
		return fmt.Errorf("failed to resolve join request %d: %w", requestID, err)
	}
	return nil
}

func (s *recruitmentService) requireAuthor(ctx context.Context, postID, currentUserID int) (*models.RecruitmentPost, error) {
	post, err := s.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != currentUserID {
		return nil, ErrForbiddenOperation
	}
	return post, nil
}
