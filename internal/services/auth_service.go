package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"task-tree-system.com/task-tree-system/internal/auth"
	dto "task-tree-system.com/task-tree-system/internal/data_models"
	apperrors "task-tree-system.com/task-tree-system/internal/errors"
	model "task-tree-system.com/task-tree-system/internal/models"
	repository "task-tree-system.com/task-tree-system/internal/repositories"
)

type AuthService struct {
	users  *repository.UserRepository
	hasher *auth.PasswordHasher
	jwt    *auth.JWTManager
}

func NewAuthService(users *repository.UserRepository, hasher *auth.PasswordHasher, jwt *auth.JWTManager) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		jwt:    jwt,
	}
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*model.User, error) {
	email = normalizeEmail(email)

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailTaken
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{Email: email, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (dto.TokenResponse, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return dto.TokenResponse{}, apperrors.ErrInvalidCredentials
		}
		return dto.TokenResponse{}, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return dto.TokenResponse{}, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateAccessToken(user.ID)
	if err != nil {
		return dto.TokenResponse{}, fmt.Errorf("generate token: %w", err)
	}

	return dto.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   s.jwt.ExpiresIn(),
	}, nil
}

// Authenticate resolves a bearer token to a user that still exists.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	id, err := s.jwt.ValidateAccessToken(token)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
