package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/scrimhub/scrimhub/models"
	"github.com/scrimhub/scrimhub/repositories"
	"github.com/scrimhub/scrimhub/utils"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Nickname string          `json:"nickname"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     models.UserRole `json:"role"`
	IGN      *string         `json:"ign,omitempty"`
	GameUID  *string         `json:"game_uid,omitempty"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, input LoginInput) (*models.User, error)
}

type authService struct {
	userRepo repositories.UserRepository
}

func NewAuthService(userRepo repositories.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if input.Nickname == "" {
		return nil, fmt.Errorf("%w: nickname is required", ErrValidationFailed)
	}
	if !utils.IsValidEmail(input.Email) {
		return nil, fmt.Errorf("%w: invalid email address", ErrValidationFailed)
	}
	if !utils.IsValidPassword(input.Password) {
		return nil, ErrPasswordTooShort
	}
	if input.GameUID != nil && !utils.IsValidGameUID(*input.GameUID) {
		return nil, fmt.Errorf("%w: invalid game uid", ErrValidationFailed)
	}

	role := input.Role
	switch role {
	case models.RoleTeam, models.RolePlayer:
	case "":
		role = models.RolePlayer
	default:
		// Admin accounts are provisioned manually, never via signup.
		return nil, fmt.Errorf("%w: invalid role %q", ErrValidationFailed, input.Role)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Nickname:     input.Nickname,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Role:         role,
		IGN:          input.IGN,
		GameUID:      input.GameUID,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repositories.ErrUserEmailConflict):
			return nil, ErrUserEmailConflict
		case errors.Is(err, repositories.ErrUserNicknameConflict):
			return nil, ErrUserNicknameConflict
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrAuthInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrAuthInvalidCredentials
	}
	return user, nil
}
